package models

import "time"

// Notification categories
const (
	NotificationCategoryAppointment  = "appointment"
	NotificationCategoryPrescription = "prescription"
	NotificationCategorySystem       = "system"
	NotificationCategoryMessage      = "message"
)

// Related-entity variants a notification may point at
const (
	RelatedModelAppointment  = "Appointment"
	RelatedModelPrescription = "Prescription"
	RelatedModelMessage      = "Message"
)

// Notification is addressed to exactly one recipient actor. The sender is
// optional and polymorphic over the three actor variants.
type Notification struct {
	BaseModel
	RecipientID   string  `gorm:"not null;index:idx_notifications_recipient"`
	RecipientRole string  `gorm:"not null;index:idx_notifications_recipient"`
	SenderID      *string
	SenderRole    *string
	Category      string `gorm:"not null"`
	Title         string `gorm:"not null"`
	Message       string
	RelatedID     *string `gorm:"index"`
	RelatedModel  *string
	IsRead        bool `gorm:"default:false"`
	ReadAt        *time.Time
}

func ValidNotificationCategory(category string) bool {
	switch category {
	case NotificationCategoryAppointment, NotificationCategoryPrescription,
		NotificationCategorySystem, NotificationCategoryMessage:
		return true
	}
	return false
}
