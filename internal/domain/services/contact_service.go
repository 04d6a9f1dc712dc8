package services

import (
	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// InterfaceContactService 定义联系留言服务接口
type InterfaceContactService interface {
	CreateContactMessage(name, email, subject, message string) (*models.ContactMessage, error)
}

// ContactService 提供联系表单留言相关的服务
type ContactService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewContactService 创建一个新的联系留言服务
func NewContactService(db *gorm.DB, cfg *config.Config) InterfaceContactService {
	return &ContactService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreateContactMessage 保存一条联系留言
func (s *ContactService) CreateContactMessage(name, email, subject, message string) (*models.ContactMessage, error) {
	contact := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}
	if err := s.DB.Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}
