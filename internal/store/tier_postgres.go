package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tour-admission/internal/costguard"
)

// PostgresTierResolver resolves organization tiers from the organizations table.
type PostgresTierResolver struct {
	pool *pgxpool.Pool
}

// NewPostgresTierResolver creates a new PostgreSQL-backed tier resolver.
func NewPostgresTierResolver(pool *pgxpool.Pool) *PostgresTierResolver {
	return &PostgresTierResolver{pool: pool}
}

func (p *PostgresTierResolver) ResolveTier(ctx context.Context, organizationID string) (costguard.Tier, error) {
	query := `
		SELECT subscription_tier
		FROM organizations
		WHERE id = $1
	`

	var tier *string

	err := p.pool.QueryRow(ctx, query, organizationID).Scan(&tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", costguard.ErrOrganizationNotFound, organizationID)
		}

		return "", err
	}

	if tier == nil {
		return costguard.TierFree, nil
	}

	return costguard.ParseTier(*tier), nil
}

// Compile-time check.
var _ costguard.TierResolver = (*PostgresTierResolver)(nil)
