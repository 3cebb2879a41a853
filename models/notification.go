package models

import "time"

// Notification types; routing to the real-time channel depends on the type.
const (
	NotificationTypeAssignment = "assignment"
	NotificationTypeView       = "view"
	NotificationTypeDownload   = "download"
	NotificationTypeApproval   = "approval"
	NotificationTypeRejection  = "rejection"
)

type Notification struct {
	NotificationID  uint      `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	Type            string    `gorm:"column:type" json:"type"` // assignment|view|download|approval|rejection
	Message         string    `gorm:"column:message" json:"message"`
	ReviewerID      *uint     `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	UserID          *uint     `gorm:"column:user_id" json:"user_id,omitempty"`
	CommunicationID uint      `gorm:"column:communication_id" json:"communication_id"`
	IsRead          bool      `gorm:"column:is_read" json:"is_read"`
	CreateAt        time.Time `gorm:"column:create_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
