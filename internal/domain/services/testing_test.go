package services

import (
	"encoding/json"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// newTestDB 创建内存数据库并迁移所有模型
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Resident{},
		&models.Complaint{},
		&models.ComplaintReply{},
		&models.Testimonial{},
		&models.ContactMessage{},
	)
	if err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

// newTestConfig 返回测试用配置
func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey: "test-secret-key",
		BaseURL:      "http://localhost:8080",
		UploadDir:    "uploads",
	}
}

// fakeCache 内存实现的缓存服务，测试时替代Redis
type fakeCache struct {
	values map[string][]byte
	tokens map[string]uint
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values: make(map[string][]byte),
		tokens: make(map[string]uint),
	}
}

func (f *fakeCache) Set(key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = data
	return nil
}

func (f *fakeCache) Get(key string, dest interface{}) error {
	data, ok := f.values[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeCache) StoreResetToken(token string, userID uint, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeCache) ConsumeResetToken(token string) (uint, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, ErrCacheMiss
	}
	delete(f.tokens, token)
	return userID, nil
}

func (f *fakeCache) Available() bool { return true }

// fakeEmail 记录发送过的邮件，不真正发送
type fakeEmail struct {
	sent []sentMail
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

func (f *fakeEmail) Send(to []string, subject, body string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeEmail) SendComplaintAdminNotification(complaint *models.Complaint, user *models.User, apartment string) error {
	return f.Send([]string{"admin@test"}, "New Complaint", complaint.Title)
}

func (f *fakeEmail) SendComplaintConfirmation(complaint *models.Complaint, user *models.User) error {
	return f.Send([]string{user.Email}, "Complaint Received", complaint.Title)
}

func (f *fakeEmail) SendResolutionNotification(complaint *models.Complaint, user *models.User) error {
	return f.Send([]string{user.Email}, "Your Complaint Has Been Resolved", complaint.Title)
}

func (f *fakeEmail) SendWelcomeEmail(user *models.User) error {
	return f.Send([]string{user.Email}, "Welcome", "")
}

func (f *fakeEmail) SendContactNotification(message *models.ContactMessage) error {
	return f.Send([]string{"contact@test"}, "New Contact Message", message.Message)
}

func (f *fakeEmail) SendPasswordResetEmail(user *models.User, resetURL string) error {
	return f.Send([]string{user.Email}, "Password Reset Request", resetURL)
}

// mustRegister 创建一个业主账号，返回账号和档案
func mustRegister(t *testing.T, db *gorm.DB, username, email string) (*models.User, *models.Resident) {
	t.Helper()

	svc := NewResidentService(db, newTestConfig())
	user, err := svc.Register(RegistrationInput{
		Username:        username,
		Password:        "secret123",
		Email:           email,
		ApartmentNumber: "A-101",
	})
	if err != nil {
		t.Fatalf("注册测试账号失败: %v", err)
	}

	var resident models.Resident
	if err := db.Where("user_id = ?", user.ID).First(&resident).Error; err != nil {
		t.Fatalf("查询测试业主档案失败: %v", err)
	}
	return user, &resident
}
