package dto

import (
	"time"

	"carelink_backend/internal/models"
)

// ---------------- Requests ----------------

type CreateNotificationRequest struct {
	Recipient    models.ActorRef  `json:"recipient"`
	Sender       *models.ActorRef `json:"sender,omitempty"`
	Category     string           `json:"category" validate:"required,is-notification-category"`
	Title        string           `json:"title" validate:"required,max=100"`
	Message      string           `json:"message" validate:"omitempty,max=1000"`
	RelatedID    *string          `json:"related_id,omitempty"`
	RelatedModel *string          `json:"related_model,omitempty" validate:"omitempty,oneof=Appointment Prescription Message"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string           `json:"id"`
	Recipient models.ActorRef  `json:"recipient"`
	Sender    *models.ActorRef `json:"sender,omitempty"`
	// SenderInfo is best-effort display enrichment; nil when the sender
	// reference no longer resolves.
	SenderInfo   *ActorSummary `json:"sender_info,omitempty"`
	Category     string        `json:"category"`
	Title        string        `json:"title"`
	Message      string        `json:"message"`
	RelatedID    *string       `json:"related_id,omitempty"`
	RelatedModel *string       `json:"related_model,omitempty"`
	IsRead       bool          `json:"is_read"`
	ReadAt       *time.Time    `json:"read_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}
