package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink_backend/internal/models"
	"carelink_backend/internal/repositories"
	"carelink_backend/internal/services/dto"
)

func TestNotificationService_NotifyRoundTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	recipient := doctorRef("d1")
	sender := patientRef("p1")
	related := "appt-42"
	relatedModel := models.RelatedModelAppointment

	created, err := env.notification.Notify(&dto.CreateNotificationRequest{
		Recipient:    recipient,
		Sender:       &sender,
		Category:     models.NotificationCategoryAppointment,
		Title:        "New Appointment Scheduled",
		Message:      "Alice Nguyen booked an appointment",
		RelatedID:    &related,
		RelatedModel: &relatedModel,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.IsRead)
	assert.Nil(t, created.ReadAt)

	list, err := env.notification.List(recipient, false, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)

	got := list.Notifications[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "New Appointment Scheduled", got.Title)
	require.NotNil(t, got.RelatedID)
	assert.Equal(t, "appt-42", *got.RelatedID)
	require.NotNil(t, got.SenderInfo)
	assert.Equal(t, "Alice Nguyen", got.SenderInfo.DisplayName)
}

func TestNotificationService_NotifyRejectsBadInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	cases := []struct {
		name string
		req  dto.CreateNotificationRequest
	}{
		{"missing recipient id", dto.CreateNotificationRequest{
			Recipient: models.ActorRef{Role: models.ActorRolePatient},
			Category:  models.NotificationCategorySystem, Title: "t",
		}},
		{"invalid role", dto.CreateNotificationRequest{
			Recipient: models.ActorRef{ID: "p1", Role: "nurse"},
			Category:  models.NotificationCategorySystem, Title: "t",
		}},
		{"blank title", dto.CreateNotificationRequest{
			Recipient: patientRef("p1"),
			Category:  models.NotificationCategorySystem, Title: "   ",
		}},
		{"unknown category", dto.CreateNotificationRequest{
			Recipient: patientRef("p1"),
			Category:  "marketing", Title: "t",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.notification.Notify(&tc.req)
			assert.ErrorIs(t, err, ErrInvalidNotification)
		})
	}
	assert.Empty(t, env.notificationRepo.notifications)
}

func TestNotificationService_ListFilters(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	recipient := patientRef("p1")
	for _, category := range []string{
		models.NotificationCategoryMessage,
		models.NotificationCategoryAppointment,
		models.NotificationCategorySystem,
	} {
		_, err := env.notification.Notify(&dto.CreateNotificationRequest{
			Recipient: recipient,
			Category:  category,
			Title:     "title",
		})
		require.NoError(t, err)
	}

	byCategory, err := env.notification.List(recipient, false, models.NotificationCategorySystem, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCategory.Total)

	require.NoError(t, env.notification.MarkAllAsRead(recipient))
	unread, err := env.notification.List(recipient, true, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread.Total)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	recipient := patientRef("p1")
	created, err := env.notification.Notify(&dto.CreateNotificationRequest{
		Recipient: recipient,
		Category:  models.NotificationCategorySystem,
		Title:     "maintenance window",
	})
	require.NoError(t, err)

	marked, err := env.notification.MarkAsRead(recipient, created.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)
	assert.NotNil(t, marked.ReadAt)

	// Marking again is a no-op success.
	again, err := env.notification.MarkAsRead(recipient, created.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)
}

func TestNotificationService_MarkAsRead_OwnershipMismatch(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	created, err := env.notification.Notify(&dto.CreateNotificationRequest{
		Recipient: patientRef("p1"),
		Category:  models.NotificationCategorySystem,
		Title:     "for p1 only",
	})
	require.NoError(t, err)

	// Someone else's notification reads as missing.
	_, err = env.notification.MarkAsRead(patientRef("p2"), created.ID)
	assert.ErrorIs(t, err, repositories.ErrNotificationNotFound)

	stored, err := env.notificationRepo.FindNotificationByID(created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	recipient := doctorRef("d1")
	for i := 0; i < 3; i++ {
		_, err := env.notification.Notify(&dto.CreateNotificationRequest{
			Recipient: recipient,
			Category:  models.NotificationCategoryMessage,
			Title:     "ping",
		})
		require.NoError(t, err)
	}

	count, err := env.notification.GetUnreadCount(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, env.notification.MarkAllAsRead(recipient))

	count, err = env.notification.GetUnreadCount(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_SenderInfoBestEffort(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	recipient := patientRef("p1")
	ghost := doctorRef("gone")
	_, err := env.notification.Notify(&dto.CreateNotificationRequest{
		Recipient: recipient,
		Sender:    &ghost,
		Category:  models.NotificationCategorySystem,
		Title:     "from a deleted doctor",
	})
	require.NoError(t, err)

	list, err := env.notification.List(recipient, false, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.NotNil(t, list.Notifications[0].Sender)
	assert.Nil(t, list.Notifications[0].SenderInfo)
}
