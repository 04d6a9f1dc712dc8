package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
	"github.com/hudaazehraa/neighborly/pkg/logger"
)

// 密码重置相关的服务层错误
var (
	ErrResetTokenInvalid = errors.New("重置令牌无效或已过期")
)

// resetTokenTTL 重置令牌有效期
const resetTokenTTL = 24 * time.Hour

// InterfacePasswordResetService 定义密码重置服务接口
type InterfacePasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

// PasswordResetService 处理忘记密码流程，令牌存在缓存里自动过期
type PasswordResetService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService
	Email  InterfaceEmailService
}

// NewPasswordResetService 创建一个新的密码重置服务
func NewPasswordResetService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService, email InterfaceEmailService) InterfacePasswordResetService {
	return &PasswordResetService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
		Email:  email,
	}
}

// 1 RequestReset 生成重置令牌并发送邮件。
// 邮箱不存在时静默返回成功，避免暴露哪些邮箱注册过。
func (s *PasswordResetService) RequestReset(email string) error {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.New().String()
	if err := s.Cache.StoreResetToken(token, user.ID, resetTokenTTL); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset/%s/", s.Config.BaseURL, token)
	if err := s.Email.SendPasswordResetEmail(&user, resetURL); err != nil {
		// 通知失败不影响主流程，统一只记日志
		logger.Warning("发送密码重置邮件失败: %v", err)
	}
	return nil
}

// 2 ResetPassword 消费令牌并设置新密码
func (s *PasswordResetService) ResetPassword(token, newPassword string) error {
	userID, err := s.Cache.ConsumeResetToken(token)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return ErrResetTokenInvalid
		}
		return err
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return err
	}

	// BeforeSave钩子负责哈希
	user.Password = newPassword
	return s.DB.Save(&user).Error
}
