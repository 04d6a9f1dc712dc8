package models

import (
	"time"
)

// DefaultApartmentNumber 未提供门牌号时使用的占位值
const DefaultApartmentNumber = "N/A"

// Resident 业主档案，与账号一一对应
type Resident struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"` // 每个账号只能有一个业主档案
	ApartmentNumber string    `gorm:"type:varchar(10);not null" json:"apartment_number"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Complaints []Complaint `gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE" json:"complaints,omitempty"`
}
