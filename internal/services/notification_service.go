package services

import (
	"errors"
	"strings"

	"carelink_backend/internal/logger"
	"carelink_backend/internal/models"
	"carelink_backend/internal/repositories"
	"carelink_backend/internal/services/dto"
)

var (
	ErrInvalidNotification = errors.New("notification is missing required fields")
)

// NotificationService is the dispatcher: it records per-recipient
// notifications and serves the recipient-scoped read model.
type NotificationService interface {
	Notify(req *dto.CreateNotificationRequest) (*models.Notification, error)
	List(recipient models.ActorRef, unreadOnly bool, category string, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkAsRead(recipient models.ActorRef, notificationID string) (*models.Notification, error)
	MarkAllAsRead(recipient models.ActorRef) error
	GetUnreadCount(recipient models.ActorRef) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	identity         IdentityService
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, identity IdentityService) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		identity:         identity,
	}
}

func (s *notificationService) Notify(req *dto.CreateNotificationRequest) (*models.Notification, error) {
	if !req.Recipient.Role.Valid() || req.Recipient.ID == "" {
		return nil, ErrInvalidNotification
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidNotification
	}
	if !models.ValidNotificationCategory(req.Category) {
		return nil, ErrInvalidNotification
	}

	notification := &models.Notification{
		RecipientID:   req.Recipient.ID,
		RecipientRole: string(req.Recipient.Role),
		Category:      req.Category,
		Title:         req.Title,
		Message:       req.Message,
		RelatedID:     req.RelatedID,
		RelatedModel:  req.RelatedModel,
	}
	if req.Sender != nil {
		senderID := req.Sender.ID
		senderRole := string(req.Sender.Role)
		notification.SenderID = &senderID
		notification.SenderRole = &senderRole
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	return notification, nil
}

func (s *notificationService) List(recipient models.ActorRef, unreadOnly bool, category string, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	criteria := repositories.NotificationCriteria{
		UnreadOnly: unreadOnly,
		Category:   category,
		Page:       page,
		PageSize:   pageSize,
	}

	notifications, total, err := s.notificationRepo.FindRecipientNotifications(recipient, criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, s.buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

// MarkAsRead flips one notification. A notification owned by someone
// else reads the same as a missing one. Already-read is a no-op success.
func (s *notificationService) MarkAsRead(recipient models.ActorRef, notificationID string) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != recipient.ID || notification.RecipientRole != string(recipient.Role) {
		return nil, repositories.ErrNotificationNotFound
	}
	if notification.IsRead {
		return notification, nil
	}

	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}
	return s.notificationRepo.FindNotificationByID(notificationID)
}

func (s *notificationService) MarkAllAsRead(recipient models.ActorRef) error {
	return s.notificationRepo.MarkAllAsRead(recipient)
}

func (s *notificationService) GetUnreadCount(recipient models.ActorRef) (int64, error) {
	return s.notificationRepo.GetUnreadCount(recipient)
}

func (s *notificationService) buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID: notification.ID,
		Recipient: models.ActorRef{
			ID:   notification.RecipientID,
			Role: models.ActorRole(notification.RecipientRole),
		},
		Category:     notification.Category,
		Title:        notification.Title,
		Message:      notification.Message,
		RelatedID:    notification.RelatedID,
		RelatedModel: notification.RelatedModel,
		IsRead:       notification.IsRead,
		ReadAt:       notification.ReadAt,
		CreatedAt:    notification.CreatedAt,
	}

	if notification.SenderID != nil && notification.SenderRole != nil {
		sender := models.ActorRef{
			ID:   *notification.SenderID,
			Role: models.ActorRole(*notification.SenderRole),
		}
		response.Sender = &sender

		info, err := s.identity.Resolve(sender)
		if err == nil {
			response.SenderInfo = info
		} else if !errors.Is(err, repositories.ErrActorNotFound) && !errors.Is(err, ErrInvalidRole) {
			logger.Warn("failed to resolve notification sender",
				"notification_id", notification.ID,
				"sender", sender.Key(),
				"error", err,
			)
		}
	}

	return response
}
