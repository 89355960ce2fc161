package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/repository"
)

// Policy is the per-customer decision and notification configuration resolved
// for one verification. Absent config rows resolve to process-wide defaults.
type Policy struct {
	Thresholds    Thresholds `json:"thresholds"`
	WebhookURL    string     `json:"webhook_url"`
	WebhookSecret string     `json:"webhook_secret"`
}

// PolicyResolver looks up customer configuration with a redis read-through
// cache in front of the record store. A nil redis client disables caching.
type PolicyResolver struct {
	configs       repository.CustomerConfigRepository
	redis         *redis.Client
	cacheTTL      time.Duration
	defaultSecret string
	logger        zerolog.Logger
}

// NewPolicyResolver constructs a resolver.
func NewPolicyResolver(configs repository.CustomerConfigRepository, redisClient *redis.Client, cacheTTL time.Duration, defaultSecret string, logger zerolog.Logger) *PolicyResolver {
	return &PolicyResolver{
		configs:       configs,
		redis:         redisClient,
		cacheTTL:      cacheTTL,
		defaultSecret: defaultSecret,
		logger:        logger.With().Str("component", "policy_resolver").Logger(),
	}
}

// Resolve returns the policy for a customer. Lookup failures degrade to
// defaults; a missing webhook URL simply disables notification.
func (r *PolicyResolver) Resolve(ctx context.Context, customerID string) Policy {
	cacheKey := fmt.Sprintf("verify:policy:%s", customerID)

	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var policy Policy
			if err := json.Unmarshal([]byte(cached), &policy); err == nil {
				return policy
			}
		}
	}

	policy := Policy{Thresholds: DefaultThresholds(), WebhookSecret: r.defaultSecret}

	config, err := r.configs.GetByCustomerID(ctx, customerID)
	switch {
	case err == nil:
		policy.Thresholds = Thresholds{Approve: config.ApproveThreshold, Reject: config.RejectThreshold}
		if config.WebhookURL != nil {
			policy.WebhookURL = *config.WebhookURL
		}
		if config.WebhookSecret != nil && *config.WebhookSecret != "" {
			policy.WebhookSecret = *config.WebhookSecret
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No config row for this customer; defaults apply.
	default:
		r.logger.Warn().Err(err).Str("customer_id", customerID).Msg("customer config lookup failed, using defaults")
		return policy
	}

	if r.redis != nil {
		if encoded, err := json.Marshal(policy); err == nil {
			if err := r.redis.Set(ctx, cacheKey, encoded, r.cacheTTL).Err(); err != nil {
				r.logger.Warn().Err(err).Msg("failed to cache customer policy")
			}
		}
	}

	return policy
}
