package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"carelink_backend/internal/models"
	"carelink_backend/internal/models/chat"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

type ChatRepository interface {
	// Conversation operations
	CreateConversation(conversation *chat.Conversation) error
	FindConversationByID(id string) (*chat.Conversation, error)
	FindConversationByPairKey(pairKey string) (*chat.Conversation, error)
	FindConversationsByActor(actor models.ActorRef) ([]chat.Conversation, error)

	// Message operations
	CreateMessage(message *chat.Message) error
	FindMessagesByConversation(conversationID string, page, pageSize int) ([]chat.Message, int64, error)
	MarkMessagesAsRead(conversationID string, recipient models.ActorRef) (int64, error)

	// Unread counter operations. The increment happens store-side so
	// concurrent sends never lose updates; the reset is an unconditional
	// set and is safe to race against increments.
	IncrementUnread(conversationID string, actor models.ActorRef, delta int) error
	ResetUnread(conversationID string, actor models.ActorRef) error
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

// Conversation operations

func (r *ChatRepositoryImpl) CreateConversation(conversation *chat.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *ChatRepositoryImpl) FindConversationByID(id string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := r.db.Preload("LastMessage").First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversationByPairKey(pairKey string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := r.db.Preload("LastMessage").Where("pair_key = ?", pairKey).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversationsByActor(actor models.ActorRef) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := r.db.Preload("LastMessage").
		Where("(participant_a_id = ? AND participant_a_role = ?) OR (participant_b_id = ? AND participant_b_role = ?)",
			actor.ID, string(actor.Role), actor.ID, string(actor.Role)).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// Message operations

// CreateMessage persists the message and moves the conversation's
// last-message reference. The two writes are separate statements: a crash
// in between leaves the message durable and the summary stale, which
// callers repair by recomputing from messages.
func (r *ChatRepositoryImpl) CreateMessage(message *chat.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return err
	}
	if err := r.db.Model(&chat.Conversation{}).Where("id = ?", message.ConversationID).
		Updates(map[string]interface{}{
			"last_message_id": message.ID,
			"updated_at":      time.Now(),
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *ChatRepositoryImpl) FindMessagesByConversation(conversationID string, page, pageSize int) ([]chat.Message, int64, error) {
	var messages []chat.Message
	query := r.db.Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Model(&chat.Message{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := pageSize
	if limit == 0 {
		limit = 50
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error

	return messages, total, err
}

func (r *ChatRepositoryImpl) MarkMessagesAsRead(conversationID string, recipient models.ActorRef) (int64, error) {
	result := r.db.Model(&chat.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND recipient_role = ? AND is_read = ?",
			conversationID, recipient.ID, string(recipient.Role), false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// Unread counter operations

func (r *ChatRepositoryImpl) IncrementUnread(conversationID string, actor models.ActorRef, delta int) error {
	key := actor.Key()
	result := r.db.Model(&chat.Conversation{}).
		Where("id = ?", conversationID).
		Update("unread_counts", gorm.Expr(
			"jsonb_set(COALESCE(unread_counts, '{}'::jsonb), ?::text[], (COALESCE(unread_counts->>?, '0')::bigint + ?)::text::jsonb, true)",
			"{"+key+"}", key, delta,
		))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) ResetUnread(conversationID string, actor models.ActorRef) error {
	key := actor.Key()
	result := r.db.Model(&chat.Conversation{}).
		Where("id = ?", conversationID).
		Update("unread_counts", gorm.Expr(
			"jsonb_set(COALESCE(unread_counts, '{}'::jsonb), ?::text[], '0'::jsonb, true)",
			"{"+key+"}",
		))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}
