package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// 投诉相关的服务层错误
var (
	ErrComplaintNotFound = errors.New("投诉不存在")
	ErrStatusRequired    = errors.New("缺少投诉状态")
)

// ComplaintInput 提交投诉时的输入
type ComplaintInput struct {
	Title       string
	Description string
	Category    string
	Image       string
}

// ComplaintFilter 业主查询自己投诉时的过滤条件
type ComplaintFilter struct {
	Category string
	Status   string
	Search   string
}

// InterfaceComplaintService 定义投诉服务接口
type InterfaceComplaintService interface {
	CreateComplaint(residentID uint, input ComplaintInput) (*models.Complaint, error)
	QueryByResident(residentID uint, filter ComplaintFilter) ([]models.Complaint, error)
	ListByResident(residentID uint) ([]models.Complaint, error)
	GetComplaintByID(id uint) (*models.Complaint, error)
	UpdateStatus(id uint, status string) (*models.Complaint, error)
	ResolveOwned(complaintID, residentID uint) (*models.Complaint, error)
	AddReply(complaintID uint, sender, message string) (*models.ComplaintReply, error)
}

// ComplaintService 提供投诉工单相关的服务
type ComplaintService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewComplaintService 创建一个新的投诉服务
func NewComplaintService(db *gorm.DB, cfg *config.Config) InterfaceComplaintService {
	return &ComplaintService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreateComplaint 创建投诉，状态固定为pending，提交者无法指定状态
func (s *ComplaintService) CreateComplaint(residentID uint, input ComplaintInput) (*models.Complaint, error) {
	category := input.Category
	if category == "" || !models.IsValidCategory(category) {
		category = models.CategoryOther
	}

	complaint := &models.Complaint{
		ResidentID:  residentID,
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Status:      models.StatusPending,
		Image:       input.Image,
	}
	if err := s.DB.Create(complaint).Error; err != nil {
		return nil, err
	}
	return complaint, nil
}

// 2 QueryByResident 查询业主自己的投诉，按提交时间倒序。
// 类别和状态为空或"all"时不过滤，搜索词对标题做不区分大小写的子串匹配。
func (s *ComplaintService) QueryByResident(residentID uint, filter ComplaintFilter) ([]models.Complaint, error) {
	query := s.DB.Where("resident_id = ?", residentID)

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// 3 ListByResident 返回业主的全部投诉，按ID倒序
func (s *ComplaintService) ListByResident(residentID uint) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := s.DB.Where("resident_id = ?", residentID).Order("id DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// 4 GetComplaintByID 根据ID获取投诉，带上业主及其账号
func (s *ComplaintService) GetComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.Preload("Resident").Preload("Resident.User").Preload("Replies").First(&complaint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

// 5 UpdateStatus 更新投诉状态，原样保存调用方给出的值
func (s *ComplaintService) UpdateStatus(id uint, status string) (*models.Complaint, error) {
	if status == "" {
		return nil, ErrStatusRequired
	}

	complaint, err := s.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(complaint).Update("status", status).Error; err != nil {
		return nil, err
	}
	complaint.Status = status
	return complaint, nil
}

// 6 ResolveOwned 把指定业主名下的一条投诉标记为已解决。
// 投诉必须属于该业主，否则视为不存在。
func (s *ComplaintService) ResolveOwned(complaintID, residentID uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.Preload("Resident").Preload("Resident.User").
		Where("id = ? AND resident_id = ?", complaintID, residentID).
		First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	if err := s.DB.Model(&complaint).Update("status", models.StatusResolved).Error; err != nil {
		return nil, err
	}
	complaint.Status = models.StatusResolved
	return &complaint, nil
}

// 7 AddReply 在投诉下追加一条回复
func (s *ComplaintService) AddReply(complaintID uint, sender, message string) (*models.ComplaintReply, error) {
	if _, err := s.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}

	reply := &models.ComplaintReply{
		ComplaintID: complaintID,
		Sender:      sender,
		Message:     message,
	}
	if err := s.DB.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}
