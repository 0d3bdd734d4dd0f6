package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tour-admission/internal/audit"
	"github.com/serroba/tour-admission/internal/events"
)

const auditSchema = `
	CREATE TABLE IF NOT EXISTS rate_limit_denials (
		id          UUID PRIMARY KEY,
		prefix      TEXT NOT NULL,
		identifier  TEXT NOT NULL,
		method      TEXT NOT NULL,
		path        TEXT NOT NULL,
		limit_value BIGINT NOT NULL,
		reset_at    TIMESTAMPTZ NOT NULL,
		request_id  TEXT,
		occurred_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS api_usage_metering (
		id              UUID PRIMARY KEY,
		user_id         TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		category        TEXT NOT NULL,
		tier            TEXT NOT NULL,
		status          TEXT NOT NULL,
		reason          TEXT NOT NULL,
		remaining_daily BIGINT NOT NULL,
		occurred_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS api_usage_metering_org_idx
		ON api_usage_metering (organization_id, category, occurred_at);
`

// Postgres is a PostgreSQL implementation of audit.Store.
// Inserts are keyed by event id, so redelivered events are written once.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL-backed audit store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the audit tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, auditSchema)

	return err
}

func (p *Postgres) SaveDenial(ctx context.Context, event *events.RateLimitDenied) error {
	query := `
		INSERT INTO rate_limit_denials
			(id, prefix, identifier, method, path, limit_value, reset_at, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.Prefix,
		event.Identifier,
		event.Method,
		event.Path,
		event.Limit,
		event.Reset,
		nullableString(event.RequestID),
		event.OccurredAt,
	)

	return err
}

func (p *Postgres) SaveMetering(ctx context.Context, event *events.Metering) error {
	query := `
		INSERT INTO api_usage_metering
			(id, user_id, organization_id, category, tier, status, reason, remaining_daily, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.OrganizationID,
		event.Category,
		event.Tier,
		event.Status,
		event.Reason,
		event.RemainingDaily,
		event.OccurredAt,
	)

	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ audit.Store = (*Postgres)(nil)
