package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink_backend/internal/models"
	"carelink_backend/internal/repositories"
	"carelink_backend/internal/services/dto"
)

func TestFanoutService_MessageSent_FullFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	result, err := env.fanout.MessageSent(patientRef("p1"), &dto.SendMessageRequest{
		RecipientID:   "d1",
		RecipientRole: "doctor",
		Content:       "Hello",
	})
	require.NoError(t, err)

	// Conversation and message persisted.
	assert.NotEmpty(t, result.Conversation.ID)
	assert.Equal(t, "Hello", result.Message.Content)
	assert.Equal(t, "Dr. Elena Petrova", result.Conversation.Participant.DisplayName)

	// Recipient's unread counter moved.
	stored := env.chatRepo.conversations[result.Conversation.ID]
	assert.Equal(t, int64(1), stored.UnreadFor(doctorRef("d1")))

	// Exactly one notification, addressed to the recipient.
	notifications := env.notificationRepo.forRecipient(doctorRef("d1"))
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, models.NotificationCategoryMessage, n.Category)
	assert.Contains(t, n.Title, "Alice Nguyen")
	assert.Equal(t, "Hello", n.Message)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, result.Message.ID, *n.RelatedID)
	require.NotNil(t, n.RelatedModel)
	assert.Equal(t, models.RelatedModelMessage, *n.RelatedModel)
}

func TestFanoutService_MessageSent_ReusesConversation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	req := &dto.SendMessageRequest{RecipientID: "d1", RecipientRole: "doctor", Content: "first"}
	first, err := env.fanout.MessageSent(patientRef("p1"), req)
	require.NoError(t, err)

	// Reply goes through the same conversation.
	reply, err := env.fanout.MessageSent(doctorRef("d1"), &dto.SendMessageRequest{
		RecipientID: "p1", RecipientRole: "patient", Content: "second",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Conversation.ID, reply.Conversation.ID)
	assert.Len(t, env.chatRepo.conversations, 1)
}

func TestFanoutService_MessageSent_UnknownRecipient(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	_, err := env.fanout.MessageSent(patientRef("p1"), &dto.SendMessageRequest{
		RecipientID:   "gone",
		RecipientRole: "doctor",
		Content:       "hello?",
	})
	assert.ErrorIs(t, err, repositories.ErrActorNotFound)
	assert.Empty(t, env.chatRepo.conversations)
}

func TestFanoutService_MessageSent_PreviewTruncation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	content := strings.Repeat("x", 80)
	_, err := env.fanout.MessageSent(patientRef("p1"), &dto.SendMessageRequest{
		RecipientID:   "d1",
		RecipientRole: "doctor",
		Content:       content,
	})
	require.NoError(t, err)

	notifications := env.notificationRepo.forRecipient(doctorRef("d1"))
	require.Len(t, notifications, 1)
	body := notifications[0].Message
	assert.Len(t, body, 53)
	assert.True(t, strings.HasSuffix(body, "..."))
	assert.Equal(t, content[:50], body[:50])
}

func TestFanoutService_MessageSent_NotificationFailureSwallowed(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.notificationRepo.createErr = errors.New("store down")

	result, err := env.fanout.MessageSent(patientRef("p1"), &dto.SendMessageRequest{
		RecipientID:   "d1",
		RecipientRole: "doctor",
		Content:       "still delivered",
	})
	require.NoError(t, err)

	// Message persisted despite the failed notification.
	assert.Len(t, env.chatRepo.messages[result.Conversation.ID], 1)
	assert.Empty(t, env.notificationRepo.notifications)
}

func TestFanoutService_AppointmentBooked_NotifiesBothSides(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	err := env.fanout.AppointmentBooked(&dto.AppointmentBookedEvent{
		AppointmentID: "appt-1",
		PatientID:     "p2",
		DoctorID:      "d2",
		Date:          date,
		TimeSlot:      "2:00 PM",
	})
	require.NoError(t, err)
	require.Len(t, env.notificationRepo.notifications, 2)

	toDoctor := env.notificationRepo.forRecipient(doctorRef("d2"))
	require.Len(t, toDoctor, 1)
	assert.Equal(t, "New Appointment Scheduled", toDoctor[0].Title)
	assert.Contains(t, toDoctor[0].Message, "2024-03-15")
	assert.Contains(t, toDoctor[0].Message, "2:00 PM")

	toPatient := env.notificationRepo.forRecipient(patientRef("p2"))
	require.Len(t, toPatient, 1)
	assert.Equal(t, "Appointment Confirmation", toPatient[0].Title)

	for _, n := range env.notificationRepo.notifications {
		assert.Equal(t, models.NotificationCategoryAppointment, n.Category)
		require.NotNil(t, n.RelatedID)
		assert.Equal(t, "appt-1", *n.RelatedID)
		require.NotNil(t, n.RelatedModel)
		assert.Equal(t, models.RelatedModelAppointment, *n.RelatedModel)
	}
}

func TestFanoutService_AppointmentStatusChanged(t *testing.T) {
	t.Parallel()

	base := dto.AppointmentStatusEvent{
		AppointmentID: "appt-1",
		PatientID:     "p2",
		DoctorID:      "d2",
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "2:00 PM",
	}

	t.Run("cancelled notifies the patient", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv()
		event := base
		event.Status = "cancelled"

		require.NoError(t, env.fanout.AppointmentStatusChanged(&event))

		notifications := env.notificationRepo.forRecipient(patientRef("p2"))
		require.Len(t, notifications, 1)
		assert.Equal(t, "Appointment Cancelled", notifications[0].Title)
	})

	t.Run("completed notifies the patient", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv()
		event := base
		event.Status = "completed"

		require.NoError(t, env.fanout.AppointmentStatusChanged(&event))

		notifications := env.notificationRepo.forRecipient(patientRef("p2"))
		require.Len(t, notifications, 1)
		assert.Equal(t, "Appointment Completed", notifications[0].Title)
	})

	t.Run("scheduled produces nothing", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv()
		event := base
		event.Status = "scheduled"

		require.NoError(t, env.fanout.AppointmentStatusChanged(&event))
		assert.Empty(t, env.notificationRepo.notifications)
	})
}

func TestFanoutService_PrescriptionIssued(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	err := env.fanout.PrescriptionIssued(&dto.PrescriptionIssuedEvent{
		PrescriptionID: "rx-7",
		PatientID:      "p1",
		DoctorID:       "d1",
		Medication:     "Amoxicillin 500mg",
	})
	require.NoError(t, err)

	notifications := env.notificationRepo.forRecipient(patientRef("p1"))
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, models.NotificationCategoryPrescription, n.Category)
	assert.Equal(t, "New Prescription", n.Title)
	assert.Contains(t, n.Message, "Dr. Elena Petrova")
	assert.Contains(t, n.Message, "Amoxicillin 500mg")
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, "rx-7", *n.RelatedID)
}

func TestFanoutService_PrescriptionIssued_UnknownDoctor(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	err := env.fanout.PrescriptionIssued(&dto.PrescriptionIssuedEvent{
		PrescriptionID: "rx-7",
		PatientID:      "p1",
		DoctorID:       "gone",
		Medication:     "Amoxicillin",
	})
	assert.ErrorIs(t, err, repositories.ErrActorNotFound)
	assert.Empty(t, env.notificationRepo.notifications)
}
