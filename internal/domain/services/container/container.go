package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/services"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	emailService services.InterfaceEmailService

	// 数据存储服务
	cacheService   services.InterfaceCacheService
	storageService services.InterfaceStorageService

	// 业务服务
	residentService      services.InterfaceResidentService
	complaintService     services.InterfaceComplaintService
	testimonialService   services.InterfaceTestimonialService
	contactService       services.InterfaceContactService
	adminService         services.InterfaceAdminService
	socialAuthService    services.InterfaceSocialAuthService
	passwordResetService services.InterfacePasswordResetService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)
	c.emailService = services.NewEmailService(c.config)

	// 初始化存储服务
	c.cacheService = services.NewRedisService(c.config, c.redis)
	c.storageService = services.NewStorageService(c.config)

	// 初始化业务服务
	c.residentService = services.NewResidentService(c.db, c.config)
	c.complaintService = services.NewComplaintService(c.db, c.config)
	c.testimonialService = services.NewTestimonialService(c.db, c.config)
	c.contactService = services.NewContactService(c.db, c.config)
	c.adminService = services.NewAdminService(c.db, c.config, c.cacheService)
	c.socialAuthService = services.NewSocialAuthService(c.db, c.config)
	c.passwordResetService = services.NewPasswordResetService(c.db, c.config, c.cacheService, c.emailService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "email":
		return c.emailService
	case "cache":
		return c.cacheService
	case "storage":
		return c.storageService
	case "resident":
		return c.residentService
	case "complaint":
		return c.complaintService
	case "testimonial":
		return c.testimonialService
	case "contact":
		return c.contactService
	case "admin":
		return c.adminService
	case "social_auth":
		return c.socialAuthService
	case "password_reset":
		return c.passwordResetService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// SetEmailService 替换邮件服务，测试时注入记录用的假实现
func (c *ServiceContainer) SetEmailService(svc services.InterfaceEmailService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emailService = svc
	c.passwordResetService = services.NewPasswordResetService(c.db, c.config, c.cacheService, svc)
}

// SetSocialAuthService 替换社交登录服务
func (c *ServiceContainer) SetSocialAuthService(svc services.InterfaceSocialAuthService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.socialAuthService = svc
}

// SetCacheService 替换缓存服务
func (c *ServiceContainer) SetCacheService(svc services.InterfaceCacheService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheService = svc
	c.adminService = services.NewAdminService(c.db, c.config, svc)
	c.passwordResetService = services.NewPasswordResetService(c.db, c.config, svc, c.emailService)
}
