package services

import (
	"errors"
	"testing"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
)

func TestRegisterCreatesUserAndResident(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig())

	user, err := svc.Register(RegistrationInput{
		Username:        "jane",
		Password:        "secret123",
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		ApartmentNumber: "B-204",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("注册后账号ID为0")
	}

	// 密码必须已经被哈希
	if user.Password == "secret123" {
		t.Error("密码以明文存储")
	}
	if !models.CheckPasswordHash("secret123", user.Password) {
		t.Error("密码哈希校验失败")
	}

	var resident models.Resident
	if err := db.Where("user_id = ?", user.ID).First(&resident).Error; err != nil {
		t.Fatalf("业主档案未创建: %v", err)
	}
	if resident.ApartmentNumber != "B-204" {
		t.Errorf("门牌号 = %q, 期望 %q", resident.ApartmentNumber, "B-204")
	}
}

func TestRegisterDefaultApartmentNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig())

	user, err := svc.Register(RegistrationInput{
		Username: "jane",
		Password: "secret123",
		Email:    "jane@example.com",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	var resident models.Resident
	if err := db.Where("user_id = ?", user.ID).First(&resident).Error; err != nil {
		t.Fatalf("业主档案未创建: %v", err)
	}
	if resident.ApartmentNumber != models.DefaultApartmentNumber {
		t.Errorf("门牌号 = %q, 期望占位值 %q", resident.ApartmentNumber, models.DefaultApartmentNumber)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig())
	mustRegister(t, db, "jane", "jane@example.com")

	_, err := svc.Register(RegistrationInput{
		Username: "jane",
		Password: "secret123",
		Email:    "other@example.com",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, 期望 ErrUsernameTaken", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig())
	mustRegister(t, db, "jane", "jane@example.com")

	_, err := svc.Register(RegistrationInput{
		Username: "other",
		Password: "secret123",
		Email:    "jane@example.com",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, 期望 ErrEmailTaken", err)
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := RegistrationInput{
		Username:  "jane",
		Password:  "secret123",
		Email:     "jane@example.com",
		FirstName: "Mary-Jane",
		LastName:  "O'Brien",
	}

	tests := []struct {
		name     string
		mutate   func(*RegistrationInput)
		badField string
	}{
		{"合法输入", func(in *RegistrationInput) {}, ""},
		{"缺用户名", func(in *RegistrationInput) { in.Username = "  " }, "username"},
		{"缺密码", func(in *RegistrationInput) { in.Password = "" }, "password"},
		{"邮箱格式错误", func(in *RegistrationInput) { in.Email = "not-an-email" }, "email"},
		{"名含数字", func(in *RegistrationInput) { in.FirstName = "Jane99" }, "first_name"},
		{"姓含符号", func(in *RegistrationInput) { in.LastName = "Doe!" }, "last_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			got := ValidateRegistration(input)
			if tt.badField == "" {
				if len(got) != 0 {
					t.Errorf("合法输入不应该报错: %v", got)
				}
				return
			}
			if _, ok := got[tt.badField]; !ok {
				t.Errorf("缺少字段 %q 的错误: %v", tt.badField, got)
			}
		})
	}
}

func TestGetOrCreateByUserIDCreatesProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewResidentService(db, newTestConfig())

	// 只有账号，没有业主档案
	user := &models.User{Username: "solo", Password: "secret123", Email: "solo@example.com", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}

	resident, err := svc.GetOrCreateByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateByUserID失败: %v", err)
	}
	if resident.ApartmentNumber != models.DefaultApartmentNumber {
		t.Errorf("门牌号 = %q, 期望占位值", resident.ApartmentNumber)
	}

	// 第二次调用返回同一条档案
	again, err := svc.GetOrCreateByUserID(user.ID)
	if err != nil {
		t.Fatalf("第二次GetOrCreateByUserID失败: %v", err)
	}
	if again.ID != resident.ID {
		t.Errorf("重复调用创建了新档案: %d != %d", again.ID, resident.ID)
	}
}
