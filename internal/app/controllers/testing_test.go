package controllers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hudaazehraa/neighborly/internal/app/middleware"
	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/domain/services/container"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// recordingEmail 记录发送过的邮件，不真正发送
type recordingEmail struct {
	sent []recordedMail
}

type recordedMail struct {
	To      []string
	Subject string
}

func (f *recordingEmail) record(to []string, subject string) error {
	f.sent = append(f.sent, recordedMail{To: to, Subject: subject})
	return nil
}

func (f *recordingEmail) Send(to []string, subject, body string) error {
	return f.record(to, subject)
}

func (f *recordingEmail) SendComplaintAdminNotification(complaint *models.Complaint, user *models.User, apartment string) error {
	return f.record([]string{"admin@test"}, "New Complaint")
}

func (f *recordingEmail) SendComplaintConfirmation(complaint *models.Complaint, user *models.User) error {
	return f.record([]string{user.Email}, "Complaint Received")
}

func (f *recordingEmail) SendResolutionNotification(complaint *models.Complaint, user *models.User) error {
	return f.record([]string{user.Email}, "Resolved")
}

func (f *recordingEmail) SendWelcomeEmail(user *models.User) error {
	return f.record([]string{user.Email}, "Welcome")
}

func (f *recordingEmail) SendContactNotification(message *models.ContactMessage) error {
	return f.record([]string{"contact@test"}, "New Contact Message")
}

func (f *recordingEmail) SendPasswordResetEmail(user *models.User, resetURL string) error {
	return f.record([]string{user.Email}, "Password Reset Request")
}

// countBySubject 统计某个主题的邮件数量
func (f *recordingEmail) countBySubject(subject string) int {
	n := 0
	for _, m := range f.sent {
		if m.Subject == subject {
			n++
		}
	}
	return n
}

// memoryCacheService 内存实现的缓存服务，测试时替代Redis
type memoryCacheService struct {
	values map[string][]byte
	tokens map[string]uint
}

func newMemoryCacheService() *memoryCacheService {
	return &memoryCacheService{
		values: make(map[string][]byte),
		tokens: make(map[string]uint),
	}
}

func (f *memoryCacheService) Set(key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = data
	return nil
}

func (f *memoryCacheService) Get(key string, dest interface{}) error {
	data, ok := f.values[key]
	if !ok {
		return services.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *memoryCacheService) Delete(key string) error {
	delete(f.values, key)
	return nil
}

func (f *memoryCacheService) StoreResetToken(token string, userID uint, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *memoryCacheService) ConsumeResetToken(token string) (uint, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, services.ErrCacheMiss
	}
	delete(f.tokens, token)
	return userID, nil
}

func (f *memoryCacheService) Available() bool { return true }

// testEnv 测试环境：路由、数据库、容器和记录用的假邮件服务
type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	container *container.ServiceContainer
	email     *recordingEmail
}

// newTestEnv 搭建测试环境并注册接口路由
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg := &config.Config{
		JWTSecretKey: "test-secret-key",
		BaseURL:      "http://localhost:8080",
		UploadDir:    t.TempDir(),
	}

	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	email := &recordingEmail{}
	serviceContainer.SetEmailService(email)
	serviceContainer.SetCacheService(newMemoryCacheService())

	middleware.InitAuthMiddleware(cfg, db)

	r := gin.New()
	r.LoadHTMLGlob("../../../web/templates/*.html")
	r.GET("/", HandlePageFunc(serviceContainer, "home"))
	r.POST("/contact/", HandleContactFunc(serviceContainer, "submitContact"))
	r.POST("/api/login/", HandleAuthFunc(serviceContainer, "apiLogin"))
	r.POST("/api/signup/", HandleAuthFunc(serviceContainer, "apiSignup"))
	r.GET("/auth/google/callback/", HandleAuthFunc(serviceContainer, "googleCallback"))

	auth := r.Group("/")
	auth.Use(middleware.AuthenticateUser())
	auth.POST("/complaint/", HandleComplaintFunc(serviceContainer, "submitComplaint"))
	auth.POST("/api/complaints/submit/", HandleComplaintFunc(serviceContainer, "apiSubmitComplaint"))

	admin := r.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.POST("/api/complaints/:id/status/", HandleAdminFunc(serviceContainer, "apiUpdateComplaintStatus"))
	admin.POST("/admin-dashboard/users/:id/", HandleAdminFunc(serviceContainer, "userDetailAction"))

	return &testEnv{
		router:    r,
		db:        db,
		container: serviceContainer,
		email:     email,
	}
}

// registerResident 创建业主账号并返回访问令牌
func (e *testEnv) registerResident(t *testing.T, username, email string) (*models.User, *models.Resident, string) {
	t.Helper()

	residentService := e.container.GetService("resident").(services.InterfaceResidentService)
	user, err := residentService.Register(services.RegistrationInput{
		Username:        username,
		Password:        "secret123",
		Email:           email,
		ApartmentNumber: "A-101",
	})
	if err != nil {
		t.Fatalf("注册测试账号失败: %v", err)
	}

	var resident models.Resident
	if err := e.db.Where("user_id = ?", user.ID).First(&resident).Error; err != nil {
		t.Fatalf("查询业主档案失败: %v", err)
	}

	jwtService := e.container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(user.ID, "user")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	return user, &resident, token
}

// adminToken 创建管理员账号并返回访问令牌
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	admin := &models.User{
		Username: "boss",
		Password: "secret123",
		Email:    "boss@example.com",
		IsStaff:  true,
		IsActive: true,
	}
	if err := e.db.Create(admin).Error; err != nil {
		t.Fatalf("创建管理员失败: %v", err)
	}

	jwtService := e.container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(admin.ID, "admin")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	return token
}
