package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func notificationRequest() *handlers.SendNotificationRequest {
	req := &handlers.SendNotificationRequest{}
	req.Body.TripID = "trip_123456"
	req.Body.Title = " Pickup moved "
	req.Body.Body = "Your pickup is now at 9:00."

	return req
}

func TestNotificationHandler_Send(t *testing.T) {
	t.Run("queues the notification", func(t *testing.T) {
		publish, published := capture[events.NotificationRequested]()
		handler := handlers.NewNotificationHandler(publish, zap.NewNop())

		req := notificationRequest()
		req.Body.Data = map[string]string{"tripUrl": "/trips/trip_123456"}

		resp, err := handler.Send(withCaller("admin-1"), req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusAccepted, resp.Status)
		require.Len(t, *published, 1)

		event := (*published)[0]
		assert.Equal(t, resp.Body.ID, event.ID)
		assert.Equal(t, "admin-1", event.RequestedBy)
		assert.Equal(t, "manual", event.Type)
		assert.Equal(t, "trip_123456", event.TripID)
		assert.Equal(t, "Pickup moved", event.Title)
		assert.Equal(t, "Your pickup is now at 9:00.", event.Body)
		assert.Equal(t, "/trips/trip_123456", event.Data["tripUrl"])
	})

	t.Run("normalizes the email address", func(t *testing.T) {
		publish, published := capture[events.NotificationRequested]()
		handler := handlers.NewNotificationHandler(publish, zap.NewNop())

		req := notificationRequest()
		req.Body.TripID = ""
		req.Body.Email = "Traveller@Example.COM"
		req.Body.Type = "reminder"

		_, err := handler.Send(withCaller("admin-1"), req)
		require.NoError(t, err)

		require.Len(t, *published, 1)
		assert.Equal(t, "traveller@example.com", (*published)[0].Email)
		assert.Equal(t, "reminder", (*published)[0].Type)
	})

	t.Run("requires an authenticated caller", func(t *testing.T) {
		publish, published := capture[events.NotificationRequested]()
		handler := handlers.NewNotificationHandler(publish, zap.NewNop())

		_, err := handler.Send(context.Background(), notificationRequest())

		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
		assert.Empty(t, *published)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		publish, _ := capture[events.NotificationRequested]()
		handler := handlers.NewNotificationHandler(publish, zap.NewNop())

		req := notificationRequest()
		req.Body.TripID = ""

		_, err := handler.Send(withCaller("admin-1"), req)

		assert.Equal(t, http.StatusBadRequest, statusOf(err))
	})

	t.Run("rejects a blank title or body", func(t *testing.T) {
		publish, _ := capture[events.NotificationRequested]()
		handler := handlers.NewNotificationHandler(publish, zap.NewNop())

		req := notificationRequest()
		req.Body.Body = "   "

		_, err := handler.Send(withCaller("admin-1"), req)

		assert.Equal(t, http.StatusBadRequest, statusOf(err))
	})

	t.Run("returns 503 when the notification cannot be queued", func(t *testing.T) {
		handler := handlers.NewNotificationHandler(errorPublish[events.NotificationRequested](errPublish), zap.NewNop())

		_, err := handler.Send(withCaller("admin-1"), notificationRequest())

		assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))
	})
}
