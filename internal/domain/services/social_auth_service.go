package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// 社交登录对账的结果分支
var (
	ErrNoResidentMatch = errors.New("没有匹配的业主账号")
	ErrAmbiguousEmail  = errors.New("邮箱匹配到多个账号")
)

// googleUserinfoURL 第三方身份提供方的用户信息端点
const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// SocialClaims 第三方身份提供方返回的经过验证的声明
type SocialClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
}

// InterfaceSocialAuthService 定义社交登录服务接口
type InterfaceSocialAuthService interface {
	Enabled() bool
	AuthCodeURL(state string) string
	FetchClaims(ctx context.Context, code string) (*SocialClaims, error)
	Reconcile(email string) (*models.User, error)
}

// SocialAuthService 处理Google OAuth登录和本地账号的对账
type SocialAuthService struct {
	DB     *gorm.DB
	Config *config.Config
	oauth  *oauth2.Config
}

// NewSocialAuthService 创建一个新的社交登录服务
func NewSocialAuthService(db *gorm.DB, cfg *config.Config) InterfaceSocialAuthService {
	return &SocialAuthService{
		DB:     db,
		Config: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled 判断是否配置了Google OAuth
func (s *SocialAuthService) Enabled() bool {
	return s.Config.GoogleClientID != "" && s.Config.GoogleClientSecret != ""
}

// AuthCodeURL 生成跳转到第三方授权页的URL
func (s *SocialAuthService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// FetchClaims 用授权码换取令牌并拉取用户信息
func (s *SocialAuthService) FetchClaims(ctx context.Context, code string) (*SocialClaims, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("OAuth令牌交换失败: %v", err)
	}

	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("获取第三方用户信息失败: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("获取第三方用户信息失败: 状态码 %d", resp.StatusCode)
	}

	var claims SocialClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("解析第三方用户信息失败: %v", err)
	}
	if claims.Email == "" {
		return nil, errors.New("第三方用户信息缺少邮箱")
	}
	return &claims, nil
}

// Reconcile 把第三方登录的邮箱和本地业主账号对账。
// 邮箱精确匹配到唯一业主账号时激活该账号并返回；没有匹配返回
// ErrNoResidentMatch，由调用方转到手动注册；匹配到多个账号属于
// 数据异常（邮箱有唯一索引，正常不会发生），返回ErrAmbiguousEmail。
func (s *SocialAuthService) Reconcile(email string) (*models.User, error) {
	var count int64
	err := s.DB.Model(&models.User{}).
		Joins("JOIN residents ON residents.user_id = users.id").
		Where("users.email = ?", email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, ErrNoResidentMatch
	}
	if count > 1 {
		return nil, ErrAmbiguousEmail
	}

	var user models.User
	err = s.DB.Joins("JOIN residents ON residents.user_id = users.id").
		Where("users.email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	// 对账成功即激活账号
	if !user.IsActive {
		if err := s.DB.Model(&user).Update("is_active", true).Error; err != nil {
			return nil, err
		}
		user.IsActive = true
	}

	return &user, nil
}
