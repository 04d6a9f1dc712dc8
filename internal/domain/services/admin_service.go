package services

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// 仪表盘统计缓存
const (
	dashboardStatsCacheKey = "admin:dashboard_stats"
	dashboardStatsCacheTTL = 1 * time.Minute
)

// DashboardStats 管理后台的聚合统计数据
type DashboardStats struct {
	PendingCount  int64    `json:"pending_count"`
	ResolvedCount int64    `json:"resolved_count"`
	Labels        []string `json:"labels"` // 按月份的注册时间轴标签，如 "Jan 2025"
	Data          []int64  `json:"data"`   // 每个月注册的业主数量
}

// InterfaceAdminService 定义管理后台服务接口
type InterfaceAdminService interface {
	ListResidents(query string) ([]models.Resident, error)
	GetDashboardStats() (*DashboardStats, error)
	InvalidateStatsCache()
}

// AdminService 提供管理后台相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService // 可以为nil，此时每次都直接查库
}

// NewAdminService 创建一个新的管理后台服务
func NewAdminService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

// 1 ListResidents 列出业主，可按用户名或门牌号做不区分大小写的子串过滤
func (s *AdminService) ListResidents(query string) ([]models.Resident, error) {
	db := s.DB.Preload("User")

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		db = db.Joins("JOIN users ON users.id = residents.user_id").
			Where("LOWER(users.username) LIKE ? OR LOWER(residents.apartment_number) LIKE ?", pattern, pattern)
	}

	var residents []models.Resident
	if err := db.Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// 2 GetDashboardStats 返回投诉数量统计和按月的业主注册曲线。
// 结果缓存一分钟，投诉状态变化或新注册时主动失效。
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	if s.Cache != nil {
		var cached DashboardStats
		if err := s.Cache.Get(dashboardStatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &DashboardStats{}

	if err := s.DB.Model(&models.Complaint{}).Where("status = ?", models.StatusPending).Count(&stats.PendingCount).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Complaint{}).Where("status = ?", models.StatusResolved).Count(&stats.ResolvedCount).Error; err != nil {
		return nil, err
	}

	// 取出所有业主对应账号的注册时间，在内存里按自然月归并，
	// 避免依赖各数据库不同的日期函数
	var joinDates []time.Time
	err := s.DB.Model(&models.Resident{}).
		Joins("JOIN users ON users.id = residents.user_id").
		Pluck("users.date_joined", &joinDates).Error
	if err != nil {
		return nil, err
	}

	stats.Labels, stats.Data = bucketByMonth(joinDates)

	if s.Cache != nil {
		if err := s.Cache.Set(dashboardStatsCacheKey, stats, dashboardStatsCacheTTL); err != nil {
			logger.Warning("缓存仪表盘统计失败: %v", err)
		}
	}
	return stats, nil
}

// 3 InvalidateStatsCache 使仪表盘统计缓存失效
func (s *AdminService) InvalidateStatsCache() {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(dashboardStatsCacheKey); err != nil {
		logger.Warning("清除仪表盘统计缓存失败: %v", err)
	}
}

// bucketByMonth 按自然月归并时间点，返回按时间排序的标签和数量
func bucketByMonth(dates []time.Time) ([]string, []int64) {
	counts := make(map[time.Time]int64)
	for _, d := range dates {
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month]++
	}

	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	labels := make([]string, 0, len(months))
	data := make([]int64, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.Format("Jan 2006"))
		data = append(data, counts[m])
	}
	return labels, data
}
