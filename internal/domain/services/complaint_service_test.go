package services

import (
	"errors"
	"testing"
	"time"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
)

func TestCreateComplaintForcesPendingStatus(t *testing.T) {
	db := newTestDB(t)
	_, resident := mustRegister(t, db, "jane", "jane@example.com")
	svc := NewComplaintService(db, newTestConfig())

	complaint, err := svc.CreateComplaint(resident.ID, ComplaintInput{
		Title:       "Broken elevator",
		Description: "The elevator is stuck.",
		Category:    models.CategoryMaintenance,
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}
	if complaint.Status != models.StatusPending {
		t.Errorf("状态 = %q, 期望 %q", complaint.Status, models.StatusPending)
	}
}

func TestCreateComplaintInvalidCategoryFallsBack(t *testing.T) {
	db := newTestDB(t)
	_, resident := mustRegister(t, db, "jane", "jane@example.com")
	svc := NewComplaintService(db, newTestConfig())

	complaint, err := svc.CreateComplaint(resident.ID, ComplaintInput{
		Title:       "Weird noise",
		Description: "There is a weird noise.",
		Category:    "nonsense",
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}
	if complaint.Category != models.CategoryOther {
		t.Errorf("类别 = %q, 期望回退到 %q", complaint.Category, models.CategoryOther)
	}
}

func TestQueryByResidentFilters(t *testing.T) {
	db := newTestDB(t)
	_, resident := mustRegister(t, db, "jane", "jane@example.com")
	_, other := mustRegister(t, db, "john", "john@example.com")
	svc := NewComplaintService(db, newTestConfig())

	seed := []struct {
		title    string
		category string
		status   string
	}{
		{"Water leak in kitchen", models.CategoryWater, models.StatusPending},
		{"Power outage", models.CategoryElectricity, models.StatusResolved},
		{"Loud music at night", models.CategoryNoise, models.StatusPending},
	}
	for _, s := range seed {
		complaint, err := svc.CreateComplaint(resident.ID, ComplaintInput{
			Title:       s.title,
			Description: "details",
			Category:    s.category,
		})
		if err != nil {
			t.Fatalf("创建投诉失败: %v", err)
		}
		if s.status == models.StatusResolved {
			if _, err := svc.UpdateStatus(complaint.ID, models.StatusResolved); err != nil {
				t.Fatalf("更新状态失败: %v", err)
			}
		}
	}
	// 其他业主的投诉不能混进来
	if _, err := svc.CreateComplaint(other.ID, ComplaintInput{
		Title:       "Water everywhere",
		Description: "details",
		Category:    models.CategoryWater,
	}); err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	tests := []struct {
		name   string
		filter ComplaintFilter
		want   int
	}{
		{"不过滤", ComplaintFilter{}, 3},
		{"all不过滤", ComplaintFilter{Category: "all", Status: "all"}, 3},
		{"按类别", ComplaintFilter{Category: models.CategoryWater}, 1},
		{"按状态", ComplaintFilter{Status: models.StatusPending}, 2},
		{"搜索不区分大小写", ComplaintFilter{Search: "WATER"}, 1},
		{"无结果", ComplaintFilter{Search: "elevator"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.QueryByResident(resident.ID, tt.filter)
			if err != nil {
				t.Fatalf("查询失败: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("结果数 = %d, 期望 %d", len(got), tt.want)
			}
		})
	}
}

func TestQueryByResidentNewestFirst(t *testing.T) {
	db := newTestDB(t)
	_, resident := mustRegister(t, db, "jane", "jane@example.com")
	svc := NewComplaintService(db, newTestConfig())

	older, err := svc.CreateComplaint(resident.ID, ComplaintInput{
		Title:       "Old issue",
		Description: "details",
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}
	newer, err := svc.CreateComplaint(resident.ID, ComplaintInput{
		Title:       "New issue",
		Description: "details",
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	// 把第一条投诉的创建时间拨回一天，保证排序可区分
	backdated := time.Now().Add(-24 * time.Hour)
	if err := db.Model(&models.Complaint{}).Where("id = ?", older.ID).
		Update("created_at", backdated).Error; err != nil {
		t.Fatalf("回拨创建时间失败: %v", err)
	}

	got, err := svc.QueryByResident(resident.ID, ComplaintFilter{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("结果数 = %d, 期望 2", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("排序 = [%d %d], 期望新的在前 [%d %d]", got[0].ID, got[1].ID, newer.ID, older.ID)
	}
}

func TestUpdateStatusRequiresStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, newTestConfig())

	if _, err := svc.UpdateStatus(1, ""); !errors.Is(err, ErrStatusRequired) {
		t.Errorf("err = %v, 期望 ErrStatusRequired", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, newTestConfig())

	if _, err := svc.UpdateStatus(999, models.StatusResolved); !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("err = %v, 期望 ErrComplaintNotFound", err)
	}
}

func TestResolveOwnedRejectsForeignComplaint(t *testing.T) {
	db := newTestDB(t)
	_, owner := mustRegister(t, db, "jane", "jane@example.com")
	_, intruder := mustRegister(t, db, "john", "john@example.com")
	svc := NewComplaintService(db, newTestConfig())

	complaint, err := svc.CreateComplaint(owner.ID, ComplaintInput{
		Title:       "Broken gate",
		Description: "details",
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	// 别人的投诉按不存在处理
	if _, err := svc.ResolveOwned(complaint.ID, intruder.ID); !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("err = %v, 期望 ErrComplaintNotFound", err)
	}

	// 自己的投诉可以关闭
	resolved, err := svc.ResolveOwned(complaint.ID, owner.ID)
	if err != nil {
		t.Fatalf("关闭投诉失败: %v", err)
	}
	if resolved.Status != models.StatusResolved {
		t.Errorf("状态 = %q, 期望 %q", resolved.Status, models.StatusResolved)
	}
}

func TestAddReply(t *testing.T) {
	db := newTestDB(t)
	_, resident := mustRegister(t, db, "jane", "jane@example.com")
	svc := NewComplaintService(db, newTestConfig())

	complaint, err := svc.CreateComplaint(resident.ID, ComplaintInput{
		Title:       "Broken gate",
		Description: "details",
	})
	if err != nil {
		t.Fatalf("创建投诉失败: %v", err)
	}

	if _, err := svc.AddReply(complaint.ID, "admin", "We are on it."); err != nil {
		t.Fatalf("追加回复失败: %v", err)
	}

	got, err := svc.GetComplaintByID(complaint.ID)
	if err != nil {
		t.Fatalf("查询投诉失败: %v", err)
	}
	if len(got.Replies) != 1 {
		t.Fatalf("回复数 = %d, 期望 1", len(got.Replies))
	}
	if got.Replies[0].Sender != "admin" {
		t.Errorf("回复发送者 = %q, 期望 admin", got.Replies[0].Sender)
	}
}
