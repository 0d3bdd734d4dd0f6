package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/tour-admission/internal/audit/store"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoop_SaveDenial(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	noop := store.NewNoop(zap.New(core))

	err := noop.SaveDenial(context.Background(), &events.RateLimitDenied{
		ID:         "evt-1",
		Prefix:     "http:write",
		Identifier: "203.0.113.7",
		Path:       "/v1/public/reviews/abcdefgh",
		Limit:      8,
		OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "http:write", logs.All()[0].ContextMap()["prefix"])
}

func TestNoop_SaveMetering(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	noop := store.NewNoop(zap.New(core))

	err := noop.SaveMetering(context.Background(), &events.Metering{
		ID:             "evt-2",
		OrganizationID: "org-1",
		Category:       "ai_image",
		Tier:           "free",
		Status:         events.StatusAllowed,
		RemainingDaily: 19,
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ai_image", logs.All()[0].ContextMap()["category"])
}
