package services

import (
	"errors"
	"testing"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
)

func TestReconcileNoMatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialAuthService(db, newTestConfig())

	if _, err := svc.Reconcile("stranger@example.com"); !errors.Is(err, ErrNoResidentMatch) {
		t.Errorf("err = %v, 期望 ErrNoResidentMatch", err)
	}
}

func TestReconcileIgnoresAccountsWithoutProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialAuthService(db, newTestConfig())

	// 只有账号没有业主档案，对账时视为无匹配
	user := &models.User{Username: "lonely", Password: "secret123", Email: "lonely@example.com", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}

	if _, err := svc.Reconcile("lonely@example.com"); !errors.Is(err, ErrNoResidentMatch) {
		t.Errorf("err = %v, 期望 ErrNoResidentMatch", err)
	}
}

func TestReconcileActivatesInactiveUser(t *testing.T) {
	db := newTestDB(t)
	user, _ := mustRegister(t, db, "jane", "jane@example.com")
	svc := NewSocialAuthService(db, newTestConfig())

	// 先停用账号
	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("停用账号失败: %v", err)
	}

	got, err := svc.Reconcile("jane@example.com")
	if err != nil {
		t.Fatalf("对账失败: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("账号ID = %d, 期望 %d", got.ID, user.ID)
	}
	if !got.IsActive {
		t.Error("对账成功后账号应该被激活")
	}

	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("查询账号失败: %v", err)
	}
	if !fresh.IsActive {
		t.Error("数据库中的账号没有被激活")
	}
}
