package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 系统账号，业主和管理员共用同一张表
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	FirstName   string    `gorm:"type:varchar(30)" json:"first_name"`
	LastName    string    `gorm:"type:varchar(30)" json:"last_name"`
	IsStaff     bool      `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool      `gorm:"default:false" json:"is_superuser"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	DateJoined  time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"resident,omitempty"`
}

// IsAdmin 判断账号是否具有管理员权限
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// FullName 返回账号的全名，为空时回退到用户名
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// BeforeSave 是一个GORM钩子，在创建和更新记录前都会运行。
// 创建时不再单独挂BeforeCreate钩子，否则同一次插入会把密码哈希两遍。
func (u *User) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// HashPassword 使用 bcrypt 对密码进行哈希处理
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash 比较密码和哈希值
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
