package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/infotier/verify-api/internal/models"
)

type countingConfigRepo struct {
	configRepoStub
	calls int
}

func (s *countingConfigRepo) GetByCustomerID(ctx context.Context, customerID string) (models.CustomerConfig, error) {
	s.calls++
	return s.configRepoStub.GetByCustomerID(ctx, customerID)
}

func TestPolicyResolverDefaultsWhenConfigMissing(t *testing.T) {
	resolver := NewPolicyResolver(&configRepoStub{}, nil, time.Minute, "process-secret", zerolog.Nop())

	policy := resolver.Resolve(context.Background(), "cust_missing")

	require.Equal(t, models.DefaultApproveThreshold, policy.Thresholds.Approve)
	require.Equal(t, models.DefaultRejectThreshold, policy.Thresholds.Reject)
	require.Empty(t, policy.WebhookURL)
	require.Equal(t, "process-secret", policy.WebhookSecret)
}

func TestPolicyResolverUsesCustomerConfig(t *testing.T) {
	url := "https://hooks.example.com/verify"
	secret := "customer-secret"
	repo := &configRepoStub{configs: map[string]models.CustomerConfig{
		"cust_1": {CustomerID: "cust_1", ApproveThreshold: 0.9, RejectThreshold: 0.2, WebhookURL: &url, WebhookSecret: &secret},
	}}

	resolver := NewPolicyResolver(repo, nil, time.Minute, "process-secret", zerolog.Nop())
	policy := resolver.Resolve(context.Background(), "cust_1")

	require.Equal(t, 0.9, policy.Thresholds.Approve)
	require.Equal(t, 0.2, policy.Thresholds.Reject)
	require.Equal(t, url, policy.WebhookURL)
	require.Equal(t, secret, policy.WebhookSecret)
}

func TestPolicyResolverCachesLookups(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	repo := &countingConfigRepo{}
	repo.configs = map[string]models.CustomerConfig{
		"cust_1": {CustomerID: "cust_1", ApproveThreshold: 0.8, RejectThreshold: 0.3},
	}

	resolver := NewPolicyResolver(repo, client, time.Minute, "secret", zerolog.Nop())
	ctx := context.Background()

	first := resolver.Resolve(ctx, "cust_1")
	second := resolver.Resolve(ctx, "cust_1")

	require.Equal(t, first, second)
	require.Equal(t, 1, repo.calls, "second resolve should hit the cache")
}

func TestPolicyResolverCacheExpiry(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	repo := &countingConfigRepo{}
	repo.configs = map[string]models.CustomerConfig{
		"cust_1": {CustomerID: "cust_1", ApproveThreshold: 0.8, RejectThreshold: 0.3},
	}

	resolver := NewPolicyResolver(repo, client, time.Second, "secret", zerolog.Nop())
	ctx := context.Background()

	resolver.Resolve(ctx, "cust_1")
	server.FastForward(2 * time.Second)
	resolver.Resolve(ctx, "cust_1")

	require.Equal(t, 2, repo.calls)
}
