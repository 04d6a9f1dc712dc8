package services

import (
	"testing"
	"time"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
)

func TestListResidentsSearch(t *testing.T) {
	db := newTestDB(t)
	mustRegister(t, db, "jane", "jane@example.com")
	_, john := mustRegister(t, db, "john", "john@example.com")
	svc := NewAdminService(db, newTestConfig(), nil)

	// john住在C-303
	if err := db.Model(john).Update("apartment_number", "C-303").Error; err != nil {
		t.Fatalf("更新门牌号失败: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"不过滤", "", 2},
		{"按用户名", "JANE", 1},
		{"按门牌号", "c-303", 1},
		{"无结果", "nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListResidents(tt.query)
			if err != nil {
				t.Fatalf("查询失败: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("结果数 = %d, 期望 %d", len(got), tt.want)
			}
		})
	}
}

func TestGetDashboardStatsCounts(t *testing.T) {
	db := newTestDB(t)
	_, resident := mustRegister(t, db, "jane", "jane@example.com")
	complaintSvc := NewComplaintService(db, newTestConfig())
	svc := NewAdminService(db, newTestConfig(), nil)

	for i := 0; i < 3; i++ {
		if _, err := complaintSvc.CreateComplaint(resident.ID, ComplaintInput{
			Title:       "issue",
			Description: "details",
		}); err != nil {
			t.Fatalf("创建投诉失败: %v", err)
		}
	}
	resolved, err := complaintSvc.CreateComplaint(resident.ID, ComplaintInput{
		Title:       "done",
		Description: "details",
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}
	if _, err := complaintSvc.UpdateStatus(resolved.ID, models.StatusResolved); err != nil {
		t.Fatalf("更新状态失败: %v", err)
	}

	stats, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("获取统计失败: %v", err)
	}
	if stats.PendingCount != 3 {
		t.Errorf("PendingCount = %d, 期望 3", stats.PendingCount)
	}
	if stats.ResolvedCount != 1 {
		t.Errorf("ResolvedCount = %d, 期望 1", stats.ResolvedCount)
	}
	if len(stats.Labels) == 0 || len(stats.Labels) != len(stats.Data) {
		t.Errorf("注册曲线不完整: labels=%v data=%v", stats.Labels, stats.Data)
	}
}

func TestGetDashboardStatsUsesCache(t *testing.T) {
	db := newTestDB(t)
	mustRegister(t, db, "jane", "jane@example.com")
	cache := newFakeCache()
	svc := NewAdminService(db, newTestConfig(), cache)

	first, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("获取统计失败: %v", err)
	}

	// 第二次注册后缓存还没失效，统计不变
	mustRegister(t, db, "john", "john@example.com")
	cached, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("获取统计失败: %v", err)
	}
	if len(cached.Data) != len(first.Data) {
		t.Error("缓存期间统计不应该变化")
	}

	// 主动失效后能看到新注册
	svc.InvalidateStatsCache()
	fresh, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("获取统计失败: %v", err)
	}
	var total int64
	for _, n := range fresh.Data {
		total += n
	}
	if total != 2 {
		t.Errorf("注册总数 = %d, 期望 2", total)
	}
}

func TestBucketByMonth(t *testing.T) {
	jan := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	labels, data := bucketByMonth([]time.Time{feb, jan, jan})

	if len(labels) != 2 {
		t.Fatalf("月份数 = %d, 期望 2", len(labels))
	}
	// 按时间先后排序
	if labels[0] != "Jan 2025" || labels[1] != "Feb 2025" {
		t.Errorf("labels = %v, 期望 [Jan 2025 Feb 2025]", labels)
	}
	if data[0] != 2 || data[1] != 1 {
		t.Errorf("data = %v, 期望 [2 1]", data)
	}
}

func TestBucketByMonthEmpty(t *testing.T) {
	labels, data := bucketByMonth(nil)
	if len(labels) != 0 || len(data) != 0 {
		t.Errorf("空输入应该返回空结果: labels=%v data=%v", labels, data)
	}
}
