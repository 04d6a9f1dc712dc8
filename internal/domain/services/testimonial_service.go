package services

import (
	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// InterfaceTestimonialService 定义评价服务接口
type InterfaceTestimonialService interface {
	CreateTestimonial(residentID uint, rating int, comments string) (*models.Testimonial, error)
	ListApproved(limit int) ([]models.Testimonial, error)
}

// TestimonialService 提供业主评价相关的服务
type TestimonialService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTestimonialService 创建一个新的评价服务
func NewTestimonialService(db *gorm.DB, cfg *config.Config) InterfaceTestimonialService {
	return &TestimonialService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreateTestimonial 创建评价。
// 无论提交内容如何，approved一律写为false，审核是管理员的线下操作。
func (s *TestimonialService) CreateTestimonial(residentID uint, rating int, comments string) (*models.Testimonial, error) {
	if rating < 1 || rating > 5 {
		rating = 5
	}

	testimonial := &models.Testimonial{
		ResidentID: &residentID,
		Rating:     rating,
		Comments:   comments,
		Approved:   false,
	}
	if err := s.DB.Create(testimonial).Error; err != nil {
		return nil, err
	}
	return testimonial, nil
}

// 2 ListApproved 返回审核通过的评价，按创建时间倒序
func (s *TestimonialService) ListApproved(limit int) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	query := s.DB.Where("approved = ?", true).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&testimonials).Error; err != nil {
		return nil, err
	}
	return testimonials, nil
}
