package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"carelink_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// Notification operations
	CreateNotification(notification *models.Notification) error
	FindNotificationByID(id string) (*models.Notification, error)
	FindRecipientNotifications(recipient models.ActorRef, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(recipient models.ActorRef) error

	// Notification stats
	GetUnreadCount(recipient models.ActorRef) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// Search criteria for a recipient's notifications
type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Category   string `form:"category"`
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	if err := r.validateNotification(notification); err != nil {
		return err
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindRecipientNotifications(recipient models.ActorRef, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Where("recipient_id = ? AND recipient_role = ?", recipient.ID, string(recipient.Role))

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}

	var total int64
	if err := query.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(recipient models.ActorRef) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_role = ? AND is_read = ?", recipient.ID, string(recipient.Role), false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(recipient models.ActorRef) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_role = ? AND is_read = ?", recipient.ID, string(recipient.Role), false).
		Count(&count).Error
	return count, err
}

// Helper methods

func (r *NotificationRepositoryImpl) validateNotification(notification *models.Notification) error {
	if notification.RecipientID == "" {
		return errors.New("recipient ID is required")
	}
	if !models.ActorRole(notification.RecipientRole).Valid() {
		return fmt.Errorf("invalid recipient role: %s", notification.RecipientRole)
	}
	if notification.Title == "" {
		return errors.New("notification title is required")
	}
	if !models.ValidNotificationCategory(notification.Category) {
		return fmt.Errorf("invalid notification category: %s", notification.Category)
	}
	return nil
}
