package models

import (
	"time"
)

// 投诉类别
const (
	CategoryWater       = "water"
	CategoryElectricity = "electricity"
	CategoryNoise       = "noise"
	CategorySecurity    = "security"
	CategoryMaintenance = "maintenance"
	CategoryOther       = "other"
)

// 投诉状态
const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
)

// ComplaintCategories 返回所有可选的投诉类别
func ComplaintCategories() []string {
	return []string{
		CategoryWater,
		CategoryElectricity,
		CategoryNoise,
		CategorySecurity,
		CategoryMaintenance,
		CategoryOther,
	}
}

// ComplaintStatuses 返回所有可选的投诉状态
func ComplaintStatuses() []string {
	return []string{StatusPending, StatusResolved}
}

// IsValidCategory 校验投诉类别是否合法
func IsValidCategory(category string) bool {
	for _, c := range ComplaintCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// Complaint 业主提交的投诉工单
type Complaint struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ResidentID  uint      `gorm:"not null;index" json:"resident_id"`
	Title       string    `gorm:"type:varchar(100);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"type:varchar(20);not null;default:other" json:"category"`
	Status      string    `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Image       string    `gorm:"type:varchar(255)" json:"image,omitempty"` // 图片附件的存储路径或URL，可选
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Resident *Resident        `gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE" json:"resident,omitempty"`
	Replies  []ComplaintReply `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}
