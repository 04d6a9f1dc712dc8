package services

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// 注册相关的服务层错误
var (
	ErrUsernameTaken = errors.New("用户名已存在")
	ErrEmailTaken    = errors.New("邮箱已被注册")
)

// 姓名只允许字母、空格、连字符和撇号
var nameRe = regexp.MustCompile(`^[A-Za-z\s'-]+$`)

// ValidateRegistration 校验注册信息，返回字段到错误信息的映射，为空表示通过
func ValidateRegistration(input RegistrationInput) map[string]string {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(input.Username) == "" {
		fieldErrors["username"] = "This field is required."
	}
	if input.Password == "" {
		fieldErrors["password"] = "This field is required."
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		fieldErrors["email"] = "Enter a valid email address."
	}
	if input.FirstName != "" && !nameRe.MatchString(input.FirstName) {
		fieldErrors["first_name"] = "Names may only contain letters, spaces, hyphens and apostrophes."
	}
	if input.LastName != "" && !nameRe.MatchString(input.LastName) {
		fieldErrors["last_name"] = "Names may only contain letters, spaces, hyphens and apostrophes."
	}
	return fieldErrors
}

// RegistrationInput 注册时提交的账号信息
type RegistrationInput struct {
	Username        string
	Password        string
	Email           string
	FirstName       string
	LastName        string
	ApartmentNumber string
	IsStaff         bool
}

// InterfaceResidentService 定义业主服务接口
type InterfaceResidentService interface {
	Register(input RegistrationInput) (*models.User, error)
	GetOrCreateByUserID(userID uint) (*models.Resident, error)
	GetResidentByID(id uint) (*models.Resident, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

// ResidentService 提供业主账号相关的服务
type ResidentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewResidentService 创建一个新的业主服务
func NewResidentService(db *gorm.DB, cfg *config.Config) InterfaceResidentService {
	return &ResidentService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Register 创建账号和业主档案。
// 两条记录在同一个事务里写入，要么都成功要么都失败。
func (s *ResidentService) Register(input RegistrationInput) (*models.User, error) {
	// 验证用户名唯一性
	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	// 验证邮箱唯一性
	if err := s.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	apartment := input.ApartmentNumber
	if apartment == "" {
		apartment = models.DefaultApartmentNumber
	}

	user := &models.User{
		Username:  input.Username,
		Password:  input.Password,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsStaff:   input.IsStaff,
		IsActive:  true,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		resident := &models.Resident{
			UserID:          user.ID,
			ApartmentNumber: apartment,
		}
		return tx.Create(resident).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// 2 GetOrCreateByUserID 获取账号对应的业主档案，不存在时用占位门牌号创建
func (s *ResidentService) GetOrCreateByUserID(userID uint) (*models.Resident, error) {
	var resident models.Resident
	err := s.DB.Where("user_id = ?", userID).First(&resident).Error
	if err == nil {
		return &resident, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	resident = models.Resident{
		UserID:          userID,
		ApartmentNumber: models.DefaultApartmentNumber,
	}
	if err := s.DB.Create(&resident).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

// 3 GetResidentByID 根据ID获取业主档案
func (s *ResidentService) GetResidentByID(id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.Preload("User").First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("业主不存在")
		}
		return nil, err
	}
	return &resident, nil
}

// 4 GetUserByID 根据ID获取账号
func (s *ResidentService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// 5 GetUserByEmail 根据邮箱获取账号
func (s *ResidentService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
