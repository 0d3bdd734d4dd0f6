// Package costguard enforces per-tier quotas on endpoints that spend money on third-party APIs.
package costguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/messaging"
	"github.com/serroba/tour-admission/internal/ratelimit"
	"go.uber.org/zap"
)

var (
	ErrUnknownCategory = errors.New("unknown cost category")
	ErrMissingSubject  = errors.New("user and organization are required")
)

const (
	burstWindow = time.Minute
	dailyWindow = 24 * time.Hour
)

// Decision reasons.
const (
	ReasonWithinLimits  = "within limits"
	ReasonDailyExceeded = "daily quota exceeded"
	ReasonBurstExceeded = "burst rate limit exceeded"
)

// Category identifies a billable third-party integration.
type Category string

const (
	CategoryAmadeus     Category = "amadeus"
	CategoryImageSearch Category = "image_search"
	CategoryAIImage     Category = "ai_image"
)

// Categories returns every known category in a stable order.
func Categories() []Category {
	return []Category{CategoryAmadeus, CategoryImageSearch, CategoryAIImage}
}

// BurstPrefix is the limiter prefix for the per-user burst counter of category.
func BurstPrefix(category Category) string {
	return "cost:" + string(category) + ":burst"
}

// DailyPrefix is the limiter prefix for the per-organization daily counter of category.
func DailyPrefix(category Category) string {
	return "cost:" + string(category) + ":daily"
}

// Prefixes returns the limiter prefixes of every known category.
func Prefixes() []string {
	out := make([]string, 0, 2*len(Categories()))
	for _, c := range Categories() {
		out = append(out, BurstPrefix(c), DailyPrefix(c))
	}

	return out
}

// TierLimits holds the quotas for one tier of one category.
type TierLimits struct {
	BurstPerMinute int64
	Daily          int64
}

// Limits maps each category and tier to its quotas.
type Limits map[Category]map[Tier]TierLimits

// DefaultLimits returns the production quota table.
func DefaultLimits() Limits {
	return Limits{
		CategoryAmadeus: {
			TierFree:       {BurstPerMinute: 6, Daily: 120},
			TierPro:        {BurstPerMinute: 18, Daily: 1200},
			TierEnterprise: {BurstPerMinute: 45, Daily: 8000},
		},
		CategoryImageSearch: {
			TierFree:       {BurstPerMinute: 12, Daily: 300},
			TierPro:        {BurstPerMinute: 30, Daily: 2400},
			TierEnterprise: {BurstPerMinute: 80, Daily: 12000},
		},
		CategoryAIImage: {
			TierFree:       {BurstPerMinute: 2, Daily: 20},
			TierPro:        {BurstPerMinute: 8, Daily: 200},
			TierEnterprise: {BurstPerMinute: 20, Daily: 1200},
		},
	}
}

// Lookup returns the quotas for category and tier.
func (l Limits) Lookup(category Category, tier Tier) (TierLimits, error) {
	tiers, ok := l[category]
	if !ok {
		return TierLimits{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	return tiers[tier], nil
}

// Subject is the authenticated caller.
type Subject struct {
	UserID         string
	OrganizationID string
}

// Decision is the outcome of a cost guard check.
type Decision struct {
	Allowed  bool
	Reason   string
	Tier     Tier
	Category Category
	Burst    ratelimit.Result
	Daily    ratelimit.Result
}

// RetryAfter returns the wait until every exhausted quota has reset.
func (d *Decision) RetryAfter(now time.Time) time.Duration {
	var latest ratelimit.Result

	for _, r := range []ratelimit.Result{d.Burst, d.Daily} {
		if !r.Success && r.Reset.After(latest.Reset) {
			latest = r
		}
	}

	return latest.RetryAfter(now)
}

// Guard enforces burst and daily quotas per organization tier.
type Guard struct {
	limiter ratelimit.Limiter
	tiers   TierResolver
	limits  Limits
	publish messaging.Publish[events.Metering]
	logger  *zap.Logger
	now     func() time.Time
	metrics *Metrics
}

// NewGuard creates a cost guard.
func NewGuard(
	limiter ratelimit.Limiter,
	tiers TierResolver,
	limits Limits,
	publish messaging.Publish[events.Metering],
	logger *zap.Logger,
	metrics *Metrics,
) *Guard {
	return &Guard{
		limiter: limiter,
		tiers:   tiers,
		limits:  limits,
		publish: publish,
		logger:  logger,
		now:     time.Now,
		metrics: metrics,
	}
}

// Check consumes one burst and one daily slot for subject and reports whether the call may proceed.
// Both quotas are always checked so that denied calls count against both.
func (g *Guard) Check(ctx context.Context, subject Subject, category Category) (*Decision, error) {
	if subject.UserID == "" || subject.OrganizationID == "" {
		return nil, ErrMissingSubject
	}

	if _, ok := g.limits[category]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	tier := g.resolveTier(ctx, subject.OrganizationID)
	if tier == "" {
		return nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, subject.OrganizationID)
	}

	limits, err := g.limits.Lookup(category, tier)
	if err != nil {
		return nil, err
	}

	burst := g.limiter.Check(ctx,
		ratelimit.JoinIdentifier(subject.OrganizationID, subject.UserID),
		limits.BurstPerMinute, burstWindow, BurstPrefix(category))

	daily := g.limiter.Check(ctx,
		subject.OrganizationID,
		limits.Daily, dailyWindow, DailyPrefix(category))

	decision := &Decision{
		Allowed:  burst.Success && daily.Success,
		Reason:   ReasonWithinLimits,
		Tier:     tier,
		Category: category,
		Burst:    burst,
		Daily:    daily,
	}

	switch {
	case !daily.Success:
		decision.Reason = ReasonDailyExceeded
	case !burst.Success:
		decision.Reason = ReasonBurstExceeded
	}

	g.metrics.observe(category, tier, decision.Allowed)
	g.record(ctx, subject, decision)

	return decision, nil
}

// resolveTier returns "" only for unknown organizations. Lookup failures
// fall back to TierFree so that a plan database outage degrades quotas instead of blocking.
func (g *Guard) resolveTier(ctx context.Context, organizationID string) Tier {
	tier, err := g.tiers.ResolveTier(ctx, organizationID)
	if err == nil {
		return tier
	}

	if errors.Is(err, ErrOrganizationNotFound) {
		return ""
	}

	g.logger.Warn("failed to resolve organization tier, using free tier",
		zap.String("organization_id", organizationID),
		zap.Error(err),
	)

	return TierFree
}

func (g *Guard) record(ctx context.Context, subject Subject, d *Decision) {
	status := events.StatusAllowed
	if !d.Allowed {
		status = events.StatusDenied
	}

	event := &events.Metering{
		ID:             uuid.NewString(),
		UserID:         subject.UserID,
		OrganizationID: subject.OrganizationID,
		Category:       string(d.Category),
		Tier:           string(d.Tier),
		Status:         status,
		Reason:         d.Reason,
		RemainingDaily: d.Daily.Remaining,
		OccurredAt:     g.now(),
	}

	if err := g.publish(ctx, event); err != nil {
		g.logger.Error("failed to publish metering event",
			zap.String("organization_id", subject.OrganizationID),
			zap.String("category", string(d.Category)),
			zap.Error(err),
		)
	}
}
