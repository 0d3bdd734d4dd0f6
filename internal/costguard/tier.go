package costguard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidTierMap       = errors.New("invalid tier map")
)

// Tier is an organization's subscription tier.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// ParseTier parses a stored tier name. Unknown or empty values map to TierFree.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierPro:
		return TierPro
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierFree
	}
}

// ParseTierMap parses "org=tier" pairs separated by commas, e.g. "acme=pro,globex=enterprise".
// An empty string yields an empty map.
func ParseTierMap(s string) (map[string]Tier, error) {
	tiers := make(map[string]Tier)

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		org, name, ok := strings.Cut(entry, "=")
		org = strings.TrimSpace(org)

		if !ok || org == "" {
			return nil, fmt.Errorf("%w: entry %q is not org=tier", ErrInvalidTierMap, entry)
		}

		tier := Tier(strings.ToLower(strings.TrimSpace(name)))
		if tier != TierFree && tier != TierPro && tier != TierEnterprise {
			return nil, fmt.Errorf("%w: unknown tier %q for %s", ErrInvalidTierMap, name, org)
		}

		tiers[org] = tier
	}

	return tiers, nil
}

// UpgradePlan returns the plan suggested to a caller who hit their quota, or "".
func (t Tier) UpgradePlan() string {
	switch t {
	case TierFree:
		return "pro_monthly"
	case TierPro:
		return "enterprise"
	default:
		return ""
	}
}

// TierResolver looks up the subscription tier of an organization.
type TierResolver interface {
	// ResolveTier returns ErrOrganizationNotFound for unknown organizations.
	ResolveTier(ctx context.Context, organizationID string) (Tier, error)
}

// StaticTierResolver resolves tiers from a fixed map.
type StaticTierResolver struct {
	tiers    map[string]Tier
	fallback Tier
	strict   bool
}

// NewStaticTierResolver creates a resolver that answers fallback for organizations not in tiers.
func NewStaticTierResolver(tiers map[string]Tier, fallback Tier) *StaticTierResolver {
	return &StaticTierResolver{tiers: tiers, fallback: fallback}
}

// NewStrictTierResolver creates a resolver that rejects organizations not in tiers.
func NewStrictTierResolver(tiers map[string]Tier) *StaticTierResolver {
	return &StaticTierResolver{tiers: tiers, strict: true}
}

func (r *StaticTierResolver) ResolveTier(_ context.Context, organizationID string) (Tier, error) {
	if tier, ok := r.tiers[organizationID]; ok {
		return tier, nil
	}

	if r.strict {
		return "", fmt.Errorf("%w: %s", ErrOrganizationNotFound, organizationID)
	}

	return r.fallback, nil
}
