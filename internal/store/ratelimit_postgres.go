package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

const rateLimitSchema = `
	CREATE TABLE IF NOT EXISTS rate_limit_windows (
		key          TEXT PRIMARY KEY,
		count        BIGINT NOT NULL,
		window_start BIGINT NOT NULL,
		expires_at   BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS rate_limit_windows_expires_at_idx ON rate_limit_windows (expires_at);
`

// RateLimitPostgresStore is a PostgreSQL implementation of ratelimit.Store.
type RateLimitPostgresStore struct {
	pool *pgxpool.Pool
}

// NewRateLimitPostgresStore creates a new PostgreSQL-backed rate limit store.
func NewRateLimitPostgresStore(pool *pgxpool.Pool) *RateLimitPostgresStore {
	return &RateLimitPostgresStore{pool: pool}
}

// EnsureSchema creates the counter table if it does not exist.
func (p *RateLimitPostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, rateLimitSchema)

	return err
}

// Hit upserts the window in a single statement. Row locking on conflict
// serializes concurrent hits for the same key; the database clock is now.
func (p *RateLimitPostgresStore) Hit(ctx context.Context, key string, window time.Duration) (ratelimit.Window, error) {
	query := `
		WITH clock AS (
			SELECT (extract(epoch FROM clock_timestamp()) * 1000)::BIGINT AS now_ms
		)
		INSERT INTO rate_limit_windows AS w (key, count, window_start, expires_at)
		SELECT $1, 1, now_ms, now_ms + $2 FROM clock
		ON CONFLICT (key) DO UPDATE SET
			count = CASE
				WHEN w.window_start + $2 <= EXCLUDED.window_start THEN 1
				ELSE w.count + 1
			END,
			window_start = CASE
				WHEN w.window_start + $2 <= EXCLUDED.window_start THEN EXCLUDED.window_start
				ELSE w.window_start
			END,
			expires_at = CASE
				WHEN w.window_start + $2 <= EXCLUDED.window_start THEN EXCLUDED.expires_at
				ELSE w.window_start + $2
			END
		RETURNING count, window_start
	`

	var (
		count   int64
		startMs int64
	)

	windowMs := max(window.Milliseconds(), 1)

	if err := p.pool.QueryRow(ctx, query, key, windowMs).Scan(&count, &startMs); err != nil {
		return ratelimit.Window{}, err
	}

	return ratelimit.Window{
		Key:    key,
		Count:  count,
		Start:  time.UnixMilli(startMs),
		Length: window,
	}, nil
}

// Prune deletes windows whose expiry has passed.
func (p *RateLimitPostgresStore) Prune(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM rate_limit_windows
		WHERE expires_at <= (extract(epoch FROM clock_timestamp()) * 1000)::BIGINT
	`

	tag, err := p.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// Compile-time checks.
var (
	_ ratelimit.Store  = (*RateLimitPostgresStore)(nil)
	_ ratelimit.Pruner = (*RateLimitPostgresStore)(nil)
)
