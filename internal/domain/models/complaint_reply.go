package models

import (
	"time"
)

// ComplaintReply 投诉下的回复消息，只追加不修改
type ComplaintReply struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"not null;index" json:"complaint_id"`
	Sender      string    `gorm:"type:varchar(100);not null" json:"sender"` // 例如 "Admin" 或业主姓名
	Message     string    `gorm:"type:text;not null" json:"message"`
	Timestamp   time.Time `gorm:"autoCreateTime" json:"timestamp"`

	// Relations
	Complaint *Complaint `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"complaint,omitempty"`
}
