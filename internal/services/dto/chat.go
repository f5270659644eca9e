package dto

import (
	"time"

	"carelink_backend/internal/models"
)

// Request/Response structures

type SendMessageRequest struct {
	RecipientID   string                `json:"recipient_id" validate:"required"`
	RecipientRole string                `json:"recipient_role" validate:"required,is-actor-role"`
	Content       string                `json:"content" validate:"required,max=5000"`
	Attachment    *AttachmentDescriptor `json:"attachment,omitempty"`
}

// AttachmentDescriptor is produced by the file-storage layer; the chat
// module only stores it.
type AttachmentDescriptor struct {
	FileName string `json:"file_name" validate:"required"`
	FilePath string `json:"file_path" validate:"required"`
	MimeType string `json:"mime_type" validate:"required"`
	FileSize int64  `json:"file_size" validate:"required,min=1"`
}

// ActorSummary is the display projection of an actor, used for
// conversation lists and notification enrichment. Never used for
// authorization decisions.
type ActorSummary struct {
	ID          string           `json:"id"`
	Role        models.ActorRole `json:"role"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	DisplayName string           `json:"display_name"`
}

func (s *ActorSummary) Ref() models.ActorRef {
	return models.ActorRef{ID: s.ID, Role: s.Role}
}

type MessageResponse struct {
	ID             string                `json:"id"`
	ConversationID string                `json:"conversation_id"`
	Sender         models.ActorRef       `json:"sender"`
	Recipient      models.ActorRef       `json:"recipient"`
	Content        string                `json:"content"`
	Attachment     *AttachmentDescriptor `json:"attachment,omitempty"`
	IsRead         bool                  `json:"is_read"`
	CreatedAt      time.Time             `json:"created_at"`
}

type ConversationSummary struct {
	ID          string           `json:"id"`
	Participant *ActorSummary    `json:"participant"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
	UnreadCount int64            `json:"unread_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type MessageListResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// SendMessageResult is what the fan-out orchestrator returns for a send:
// the primary entities only, never the advisory notification.
type SendMessageResult struct {
	Conversation *ConversationSummary `json:"conversation"`
	Message      *MessageResponse     `json:"message"`
}
