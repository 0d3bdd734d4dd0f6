package handlers_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/handlers"
	"github.com/serroba/tour-admission/internal/messaging"
)

var errPublish = errors.New("publish error")

// capture returns a publish function that records events, and the slice it records into.
func capture[T any]() (messaging.Publish[T], *[]*T) {
	var published []*T

	return func(_ context.Context, event *T) error {
		published = append(published, event)

		return nil
	}, &published
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ context.Context, _ *T) error { return err }
}

func withCaller(userID string) context.Context {
	return handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
		RequestID: "req-1",
		ClientIP:  "198.51.100.4",
		UserID:    userID,
	})
}

func statusOf(err error) int {
	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.GetStatus()
	}

	return http.StatusOK
}
