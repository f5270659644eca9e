package chat

import "time"

// Message belongs to exactly one conversation. The attachment descriptor is
// stored inline; file bytes never pass through this module.
type Message struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ConversationID string `gorm:"index;not null"`
	SenderID       string `gorm:"index;not null"`
	SenderRole     string `gorm:"not null"`
	RecipientID    string `gorm:"index;not null"`
	RecipientRole  string `gorm:"not null"`
	Content        string `gorm:"type:text;not null"`
	AttachmentName *string
	AttachmentPath *string
	AttachmentMime *string
	AttachmentSize *int64
	IsRead         bool `gorm:"default:false"`
	CreatedAt      time.Time
}

func (Message) TableName() string {
	return "chat.messages"
}
