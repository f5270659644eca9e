package services

import (
	"gorm.io/gorm"

	"carelink_backend/internal/repositories"
)

// ServiceContainer wires repositories into the service layer.
type ServiceContainer struct {
	Identity     IdentityService
	Chat         ChatService
	Notification NotificationService
	Fanout       FanoutService
}

func NewServiceContainer(db *gorm.DB) *ServiceContainer {
	patientRepo := repositories.NewPatientRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	identity := NewIdentityService(patientRepo, doctorRepo, adminRepo)
	chat := NewChatService(chatRepo, identity)
	notification := NewNotificationService(notificationRepo, identity)
	fanout := NewFanoutService(chat, notification, identity)

	return &ServiceContainer{
		Identity:     identity,
		Chat:         chat,
		Notification: notification,
		Fanout:       fanout,
	}
}
