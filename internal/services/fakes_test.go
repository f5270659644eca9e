package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"carelink_backend/internal/models"
	"carelink_backend/internal/models/chat"
	"carelink_backend/internal/repositories"
)

var errDuplicatePairKey = errors.New("duplicate pair key")

// In-memory repository fakes. They mirror the store semantics the real
// implementations rely on: unique pair keys, recipient-scoped read
// flips, and per-key unread counters.

type fakePatientRepo struct {
	patients map[string]*models.Patient
}

func (r *fakePatientRepo) FindByID(id string) (*models.Patient, error) {
	if p, ok := r.patients[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrActorNotFound
}

type fakeDoctorRepo struct {
	doctors map[string]*models.Doctor
}

func (r *fakeDoctorRepo) FindByID(id string) (*models.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		return d, nil
	}
	return nil, repositories.ErrActorNotFound
}

type fakeAdminRepo struct {
	admins map[string]*models.Admin
}

func (r *fakeAdminRepo) FindByID(id string) (*models.Admin, error) {
	if a, ok := r.admins[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrActorNotFound
}

type fakeChatRepo struct {
	conversations map[string]*chat.Conversation
	messages      map[string][]*chat.Message

	createConversationErr error
	createMessageErr      error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		conversations: make(map[string]*chat.Conversation),
		messages:      make(map[string][]*chat.Message),
	}
}

func (r *fakeChatRepo) CreateConversation(conversation *chat.Conversation) error {
	if r.createConversationErr != nil {
		return r.createConversationErr
	}
	for _, existing := range r.conversations {
		if existing.PairKey == conversation.PairKey {
			return errDuplicatePairKey
		}
	}
	conversation.ID = uuid.NewString()
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = conversation.CreatedAt
	r.conversations[conversation.ID] = conversation
	return nil
}

func (r *fakeChatRepo) FindConversationByID(id string) (*chat.Conversation, error) {
	if c, ok := r.conversations[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrConversationNotFound
}

func (r *fakeChatRepo) FindConversationByPairKey(pairKey string) (*chat.Conversation, error) {
	for _, c := range r.conversations {
		if c.PairKey == pairKey {
			return c, nil
		}
	}
	return nil, repositories.ErrConversationNotFound
}

func (r *fakeChatRepo) FindConversationsByActor(actor models.ActorRef) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(actor) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) CreateMessage(message *chat.Message) error {
	if r.createMessageErr != nil {
		return r.createMessageErr
	}
	message.ID = uuid.NewString()
	message.CreatedAt = time.Now()
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], message)
	if c, ok := r.conversations[message.ConversationID]; ok {
		c.LastMessageID = &message.ID
		c.UpdatedAt = message.CreatedAt
	}
	return nil
}

func (r *fakeChatRepo) FindMessagesByConversation(conversationID string, page, pageSize int) ([]chat.Message, int64, error) {
	msgs := r.messages[conversationID]
	total := int64(len(msgs))

	// newest first
	out := make([]chat.Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		out = append(out, *msgs[i])
	}

	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeChatRepo) MarkMessagesAsRead(conversationID string, recipient models.ActorRef) (int64, error) {
	var flipped int64
	for _, m := range r.messages[conversationID] {
		if m.RecipientID == recipient.ID && m.RecipientRole == string(recipient.Role) && !m.IsRead {
			m.IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

func (r *fakeChatRepo) IncrementUnread(conversationID string, actor models.ActorRef, delta int) error {
	c, ok := r.conversations[conversationID]
	if !ok {
		return repositories.ErrConversationNotFound
	}
	if c.UnreadCounts == nil {
		c.UnreadCounts = datatypes.JSONMap{}
	}
	current := c.UnreadFor(actor)
	c.UnreadCounts[actor.Key()] = current + int64(delta)
	return nil
}

func (r *fakeChatRepo) ResetUnread(conversationID string, actor models.ActorRef) error {
	c, ok := r.conversations[conversationID]
	if !ok {
		return repositories.ErrConversationNotFound
	}
	if c.UnreadCounts == nil {
		c.UnreadCounts = datatypes.JSONMap{}
	}
	c.UnreadCounts[actor.Key()] = int64(0)
	return nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification

	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	notification.ID = uuid.NewString()
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindRecipientNotifications(recipient models.ActorRef, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var matched []models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.RecipientID != recipient.ID || n.RecipientRole != string(recipient.Role) {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		if criteria.Category != "" && n.Category != criteria.Category {
			continue
		}
		matched = append(matched, *n)
	}

	total := int64(len(matched))
	start := (criteria.Page - 1) * criteria.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + criteria.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID string) error {
	for _, n := range r.notifications {
		if n.ID == notificationID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipient models.ActorRef) error {
	now := time.Now()
	for _, n := range r.notifications {
		if n.RecipientID == recipient.ID && n.RecipientRole == string(recipient.Role) && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipient models.ActorRef) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipient.ID && n.RecipientRole == string(recipient.Role) && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) forRecipient(recipient models.ActorRef) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipient.ID && n.RecipientRole == string(recipient.Role) {
			out = append(out, n)
		}
	}
	return out
}

// Test fixture wiring

type testEnv struct {
	chatRepo         *fakeChatRepo
	notificationRepo *fakeNotificationRepo

	identity     IdentityService
	chat         ChatService
	notification NotificationService
	fanout       FanoutService
}

func newTestEnv() *testEnv {
	patients := &fakePatientRepo{patients: map[string]*models.Patient{
		"p1": {BaseModel: models.BaseModel{ID: "p1"}, FirstName: "Alice", LastName: "Nguyen"},
		"p2": {BaseModel: models.BaseModel{ID: "p2"}, FirstName: "Bob", LastName: "Karimov"},
	}}
	doctors := &fakeDoctorRepo{doctors: map[string]*models.Doctor{
		"d1": {BaseModel: models.BaseModel{ID: "d1"}, FirstName: "Elena", LastName: "Petrova"},
		"d2": {BaseModel: models.BaseModel{ID: "d2"}, FirstName: "Omar", LastName: "Said"},
	}}
	admins := &fakeAdminRepo{admins: map[string]*models.Admin{
		"a1": {BaseModel: models.BaseModel{ID: "a1"}, FirstName: "Root", LastName: "Admin"},
	}}

	chatRepo := newFakeChatRepo()
	notificationRepo := newFakeNotificationRepo()

	identity := NewIdentityService(patients, doctors, admins)
	chatSvc := NewChatService(chatRepo, identity)
	notificationSvc := NewNotificationService(notificationRepo, identity)
	fanout := NewFanoutService(chatSvc, notificationSvc, identity)

	return &testEnv{
		chatRepo:         chatRepo,
		notificationRepo: notificationRepo,
		identity:         identity,
		chat:             chatSvc,
		notification:     notificationSvc,
		fanout:           fanout,
	}
}

func patientRef(id string) models.ActorRef {
	return models.ActorRef{ID: id, Role: models.ActorRolePatient}
}

func doctorRef(id string) models.ActorRef {
	return models.ActorRef{ID: id, Role: models.ActorRoleDoctor}
}
