package services

import (
	"fmt"

	"carelink_backend/internal/logger"
	"carelink_backend/internal/models"
	"carelink_backend/internal/services/dto"
)

const messagePreviewLimit = 50

// FanoutService composes the chat and notification modules into the
// business flows. Primary effects (conversation, message) are load
// bearing; notification writes are advisory and never fail the flow.
type FanoutService interface {
	MessageSent(sender models.ActorRef, req *dto.SendMessageRequest) (*dto.SendMessageResult, error)
	AppointmentBooked(event *dto.AppointmentBookedEvent) error
	AppointmentStatusChanged(event *dto.AppointmentStatusEvent) error
	PrescriptionIssued(event *dto.PrescriptionIssuedEvent) error
}

type fanoutService struct {
	chatSvc         ChatService
	notificationSvc NotificationService
	identity        IdentityService
}

func NewFanoutService(chatSvc ChatService, notificationSvc NotificationService, identity IdentityService) FanoutService {
	return &fanoutService{
		chatSvc:         chatSvc,
		notificationSvc: notificationSvc,
		identity:        identity,
	}
}

// MessageSent runs the full send recipe: resolve both actors, find or
// create the conversation, append the message, then drop a preview
// notification for the recipient.
func (s *fanoutService) MessageSent(sender models.ActorRef, req *dto.SendMessageRequest) (*dto.SendMessageResult, error) {
	recipient := models.ActorRef{ID: req.RecipientID, Role: models.ActorRole(req.RecipientRole)}

	senderInfo, err := s.identity.Resolve(sender)
	if err != nil {
		return nil, err
	}
	recipientInfo, err := s.identity.Resolve(recipient)
	if err != nil {
		return nil, err
	}

	conversation, err := s.chatSvc.GetOrCreateConversation(sender, recipient)
	if err != nil {
		return nil, err
	}

	message, err := s.chatSvc.AppendMessage(conversation.ID, sender, recipient, req.Content, req.Attachment)
	if err != nil {
		return nil, err
	}

	s.notify(&dto.CreateNotificationRequest{
		Recipient:    recipient,
		Sender:       &sender,
		Category:     models.NotificationCategoryMessage,
		Title:        fmt.Sprintf("New message from %s", senderInfo.DisplayName),
		Message:      messagePreview(message.Content),
		RelatedID:    &message.ID,
		RelatedModel: relatedModelPtr(models.RelatedModelMessage),
	})

	return &dto.SendMessageResult{
		Conversation: &dto.ConversationSummary{
			ID:          conversation.ID,
			Participant: recipientInfo,
			CreatedAt:   conversation.CreatedAt,
			UpdatedAt:   conversation.UpdatedAt,
		},
		Message: buildMessageResponse(message),
	}, nil
}

// AppointmentBooked notifies both sides of a new appointment.
func (s *fanoutService) AppointmentBooked(event *dto.AppointmentBookedEvent) error {
	patient := models.ActorRef{ID: event.PatientID, Role: models.ActorRolePatient}
	doctor := models.ActorRef{ID: event.DoctorID, Role: models.ActorRoleDoctor}

	patientInfo, err := s.identity.Resolve(patient)
	if err != nil {
		return err
	}
	doctorInfo, err := s.identity.Resolve(doctor)
	if err != nil {
		return err
	}

	when := fmt.Sprintf("%s at %s", event.Date.Format("2006-01-02"), event.TimeSlot)

	s.notify(&dto.CreateNotificationRequest{
		Recipient:    doctor,
		Sender:       &patient,
		Category:     models.NotificationCategoryAppointment,
		Title:        "New Appointment Scheduled",
		Message:      fmt.Sprintf("%s booked an appointment on %s", patientInfo.DisplayName, when),
		RelatedID:    &event.AppointmentID,
		RelatedModel: relatedModelPtr(models.RelatedModelAppointment),
	})
	s.notify(&dto.CreateNotificationRequest{
		Recipient:    patient,
		Sender:       &doctor,
		Category:     models.NotificationCategoryAppointment,
		Title:        "Appointment Confirmation",
		Message:      fmt.Sprintf("Your appointment with %s is booked for %s", doctorInfo.DisplayName, when),
		RelatedID:    &event.AppointmentID,
		RelatedModel: relatedModelPtr(models.RelatedModelAppointment),
	})

	return nil
}

// AppointmentStatusChanged notifies the patient about terminal status
// transitions. Non-terminal statuses produce no notification.
func (s *fanoutService) AppointmentStatusChanged(event *dto.AppointmentStatusEvent) error {
	var title, body string
	switch event.Status {
	case "cancelled":
		title = "Appointment Cancelled"
		body = "Your appointment on %s was cancelled"
	case "completed":
		title = "Appointment Completed"
		body = "Your appointment on %s is complete"
	default:
		return nil
	}

	patient := models.ActorRef{ID: event.PatientID, Role: models.ActorRolePatient}
	doctor := models.ActorRef{ID: event.DoctorID, Role: models.ActorRoleDoctor}

	if _, err := s.identity.Resolve(patient); err != nil {
		return err
	}

	when := fmt.Sprintf("%s at %s", event.Date.Format("2006-01-02"), event.TimeSlot)

	s.notify(&dto.CreateNotificationRequest{
		Recipient:    patient,
		Sender:       &doctor,
		Category:     models.NotificationCategoryAppointment,
		Title:        title,
		Message:      fmt.Sprintf(body, when),
		RelatedID:    &event.AppointmentID,
		RelatedModel: relatedModelPtr(models.RelatedModelAppointment),
	})

	return nil
}

// PrescriptionIssued notifies the patient of a new prescription.
func (s *fanoutService) PrescriptionIssued(event *dto.PrescriptionIssuedEvent) error {
	patient := models.ActorRef{ID: event.PatientID, Role: models.ActorRolePatient}
	doctor := models.ActorRef{ID: event.DoctorID, Role: models.ActorRoleDoctor}

	doctorInfo, err := s.identity.Resolve(doctor)
	if err != nil {
		return err
	}
	if _, err := s.identity.Resolve(patient); err != nil {
		return err
	}

	s.notify(&dto.CreateNotificationRequest{
		Recipient:    patient,
		Sender:       &doctor,
		Category:     models.NotificationCategoryPrescription,
		Title:        "New Prescription",
		Message:      fmt.Sprintf("%s issued a prescription: %s", doctorInfo.DisplayName, event.Medication),
		RelatedID:    &event.PrescriptionID,
		RelatedModel: relatedModelPtr(models.RelatedModelPrescription),
	})

	return nil
}

// notify writes an advisory notification. Failures are logged and
// swallowed so the primary flow never rolls back over them.
func (s *fanoutService) notify(req *dto.CreateNotificationRequest) {
	if _, err := s.notificationSvc.Notify(req); err != nil {
		logger.Warn("notification dispatch failed",
			"recipient", req.Recipient.Key(),
			"category", req.Category,
			"title", req.Title,
			"error", err,
		)
	}
}

// messagePreview truncates long content at a rune boundary.
func messagePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewLimit {
		return content
	}
	return string(runes[:messagePreviewLimit]) + "..."
}

func relatedModelPtr(model string) *string {
	return &model
}
