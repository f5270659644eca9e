package services

import (
	"errors"
	"strings"

	"gorm.io/datatypes"

	"carelink_backend/internal/logger"
	"carelink_backend/internal/models"
	"carelink_backend/internal/models/chat"
	"carelink_backend/internal/repositories"
	"carelink_backend/internal/services/dto"
)

var (
	ErrInvalidParticipants = errors.New("sender and recipient must be distinct actors")
	ErrEmptyContent        = errors.New("message content is empty")
	ErrBadAttachment       = errors.New("malformed attachment descriptor")
)

// ChatService is the conversation directory plus the message ledger.
type ChatService interface {
	// Conversation directory
	GetOrCreateConversation(a, b models.ActorRef) (*chat.Conversation, error)

	// Message ledger
	AppendMessage(conversationID string, sender, recipient models.ActorRef, content string, attachment *dto.AttachmentDescriptor) (*chat.Message, error)
	MarkConversationRead(actor models.ActorRef, conversationID string) (int64, error)
	ListConversations(actor models.ActorRef) ([]*dto.ConversationSummary, error)
	ListMessages(actor models.ActorRef, conversationID string, page, pageSize int) (*dto.MessageListResponse, error)
}

type chatService struct {
	chatRepo repositories.ChatRepository
	identity IdentityService
}

func NewChatService(chatRepo repositories.ChatRepository, identity IdentityService) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		identity: identity,
	}
}

// ---------------- Conversation directory ----------------

// GetOrCreateConversation finds the conversation between two actors,
// creating it lazily on first contact. Lookup is order-independent:
// (A,B) and (B,A) hit the same pair key. A concurrent create between the
// same pair loses on the unique index and re-reads the winner's row.
func (s *chatService) GetOrCreateConversation(a, b models.ActorRef) (*chat.Conversation, error) {
	if !a.Role.Valid() || !b.Role.Valid() {
		return nil, ErrInvalidParticipants
	}
	if a.Equal(b) {
		return nil, ErrInvalidParticipants
	}

	pairKey := chat.PairKey(a, b)

	conversation, err := s.chatRepo.FindConversationByPairKey(pairKey)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, repositories.ErrConversationNotFound) {
		return nil, err
	}

	conversation = &chat.Conversation{
		PairKey:          pairKey,
		ParticipantAID:   a.ID,
		ParticipantARole: string(a.Role),
		ParticipantBID:   b.ID,
		ParticipantBRole: string(b.Role),
		UnreadCounts:     datatypes.JSONMap{a.Key(): 0, b.Key(): 0},
	}

	if createErr := s.chatRepo.CreateConversation(conversation); createErr != nil {
		// Unique pair_key violation: another request created the
		// conversation first. Return its row.
		existing, findErr := s.chatRepo.FindConversationByPairKey(pairKey)
		if findErr == nil {
			return existing, nil
		}
		return nil, createErr
	}

	return conversation, nil
}

// ---------------- Message ledger ----------------

// AppendMessage persists a message and bumps the recipient's unread
// counter. The counter increment is a store-side atomic add; if the store
// fails after the message insert, the message stays durable and the
// conversation summary is stale until the next append.
func (s *chatService) AppendMessage(conversationID string, sender, recipient models.ActorRef, content string, attachment *dto.AttachmentDescriptor) (*chat.Message, error) {
	if sender.Equal(recipient) {
		return nil, ErrInvalidParticipants
	}
	if !sender.Role.Valid() || !recipient.Role.Valid() {
		return nil, ErrInvalidParticipants
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if attachment != nil {
		if attachment.FileName == "" || attachment.FilePath == "" ||
			attachment.MimeType == "" || attachment.FileSize <= 0 {
			return nil, ErrBadAttachment
		}
	}

	conversation, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(sender) || !conversation.HasParticipant(recipient) {
		// Participant mismatch reads the same as a missing conversation.
		return nil, repositories.ErrConversationNotFound
	}

	message := &chat.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		SenderRole:     string(sender.Role),
		RecipientID:    recipient.ID,
		RecipientRole:  string(recipient.Role),
		Content:        content,
	}
	if attachment != nil {
		message.AttachmentName = &attachment.FileName
		message.AttachmentPath = &attachment.FilePath
		message.AttachmentMime = &attachment.MimeType
		message.AttachmentSize = &attachment.FileSize
	}

	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	if err := s.chatRepo.IncrementUnread(conversationID, recipient, 1); err != nil {
		return nil, err
	}

	return message, nil
}

// MarkConversationRead flips the actor's unread messages and resets the
// counter. Idempotent: the second call flips nothing and resets an
// already-zero counter.
func (s *chatService) MarkConversationRead(actor models.ActorRef, conversationID string) (int64, error) {
	conversation, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		return 0, err
	}
	if !conversation.HasParticipant(actor) {
		return 0, repositories.ErrConversationNotFound
	}

	flipped, err := s.chatRepo.MarkMessagesAsRead(conversationID, actor)
	if err != nil {
		return 0, err
	}

	// Unconditional reset, independent of how many messages flipped.
	if err := s.chatRepo.ResetUnread(conversationID, actor); err != nil {
		return flipped, err
	}

	return flipped, nil
}

func (s *chatService) ListConversations(actor models.ActorRef) ([]*dto.ConversationSummary, error) {
	conversations, err := s.chatRepo.FindConversationsByActor(actor)
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		conversation := &conversations[i]

		other, ok := conversation.OtherParticipant(actor)
		if !ok {
			continue
		}

		participant, err := s.identity.Resolve(other)
		if err != nil {
			if errors.Is(err, repositories.ErrActorNotFound) || errors.Is(err, ErrInvalidRole) {
				// Historical conversation whose counterpart was deleted;
				// excluded from the list rather than failing it.
				logger.Debug("skipping conversation with unresolved participant",
					"conversation_id", conversation.ID,
					"participant", other.Key(),
				)
				continue
			}
			return nil, err
		}

		summaries = append(summaries, &dto.ConversationSummary{
			ID:          conversation.ID,
			Participant: participant,
			LastMessage: buildMessageResponse(conversation.LastMessage),
			UnreadCount: conversation.UnreadFor(actor),
			CreatedAt:   conversation.CreatedAt,
			UpdatedAt:   conversation.UpdatedAt,
		})
	}

	return summaries, nil
}

func (s *chatService) ListMessages(actor models.ActorRef, conversationID string, page, pageSize int) (*dto.MessageListResponse, error) {
	conversation, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(actor) {
		return nil, repositories.ErrConversationNotFound
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	messages, total, err := s.chatRepo.FindMessagesByConversation(conversationID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, buildMessageResponse(&messages[i]))
	}

	return &dto.MessageListResponse{
		Messages:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// ---------------- Helpers ----------------

func buildMessageResponse(message *chat.Message) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	response := &dto.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Sender:         models.ActorRef{ID: message.SenderID, Role: models.ActorRole(message.SenderRole)},
		Recipient:      models.ActorRef{ID: message.RecipientID, Role: models.ActorRole(message.RecipientRole)},
		Content:        message.Content,
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt,
	}

	if message.AttachmentPath != nil {
		response.Attachment = &dto.AttachmentDescriptor{
			FileName: deref(message.AttachmentName),
			FilePath: deref(message.AttachmentPath),
			MimeType: deref(message.AttachmentMime),
		}
		if message.AttachmentSize != nil {
			response.Attachment.FileSize = *message.AttachmentSize
		}
	}

	return response
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
