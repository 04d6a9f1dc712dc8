package models

import (
	"time"
)

// Testimonial 业主评价，审核通过前不对外展示
type Testimonial struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ResidentID *uint     `gorm:"index" json:"resident_id,omitempty"` // 业主被删除后保留评价，关联置空
	Rating     int       `gorm:"not null;default:5" json:"rating"`
	Comments   string    `gorm:"type:text" json:"comments"`
	Approved   bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:SET NULL" json:"resident,omitempty"`
}
