// Package health reports the status of the counter store and its dependencies.
package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts pgxpool.Pool to Checker interface.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Handler handles health check operations.
type Handler struct {
	redis    Checker
	postgres Checker
	mode     ratelimit.FailureMode
}

// NewHandler creates a new health handler. postgres may be nil when no database is configured.
func NewHandler(redis, postgres Checker, mode ratelimit.FailureMode) *Handler {
	return &Handler{redis: redis, postgres: postgres, mode: mode}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status      string `json:"status"`
		Redis       string `json:"redis"`
		Postgres    string `json:"postgres,omitempty"`
		FailureMode string `json:"failureMode"`
	}
}

// Check performs a health check of the application and its dependencies.
// Degraded dependencies are reported in the body; the status code stays 200.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.FailureMode = h.mode.String()

	resp.Body.Redis = h.ping(ctx, h.redis, resp)

	if h.postgres != nil {
		resp.Body.Postgres = h.ping(ctx, h.postgres, resp)
	}

	return resp, nil
}

func (h *Handler) ping(ctx context.Context, checker Checker, resp *Response) string {
	if err := checker.Ping(ctx); err != nil {
		resp.Body.Status = "degraded"

		return statusUnhealthy
	}

	return statusHealthy
}

// RegisterRoutes registers health check routes. Health checks are never rate limited.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
