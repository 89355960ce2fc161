package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/infotier/verify-api/internal/observability"
	"github.com/infotier/verify-api/internal/repository"
)

// SignatureHeader carries the HMAC digest proving the sender holds the shared secret.
const SignatureHeader = "X-Infotier-Signature"

// WebhookNotifier delivers decision notifications to customer endpoints.
type WebhookNotifier interface {
	Notify(ctx context.Context, verificationID, action string)
}

// WebhookOptions bound the delivery retry policy.
type WebhookOptions struct {
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

type webhookService struct {
	verifications repository.VerificationRepository
	policies      *PolicyResolver
	client        *http.Client
	opts          WebhookOptions
	logger        zerolog.Logger
}

// NewWebhookService constructs a notifier with bounded retry delivery.
func NewWebhookService(verifications repository.VerificationRepository, policies *PolicyResolver, opts WebhookOptions, logger zerolog.Logger) WebhookNotifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}

	return &webhookService{
		verifications: verifications,
		policies:      policies,
		client:        &http.Client{Timeout: opts.Timeout},
		opts:          opts,
		logger:        logger.With().Str("component", "webhook_service").Logger(),
	}
}

// webhookPayload is the canonical notification body. Field order is fixed so
// the signed bytes are reproducible.
type webhookPayload struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Score  *float64 `json:"score"`
	Reason *string  `json:"reason"`
	Action string   `json:"action"`
}

// Notify re-reads the verification and delivers a signed notification to the
// customer's webhook URL. Every failure mode is swallowed: a missing
// verification or absent URL is a no-op, and delivery failure after the retry
// budget is logged and counted, never surfaced.
func (s *webhookService) Notify(ctx context.Context, verificationID, action string) {
	verification, err := s.verifications.GetByID(ctx, verificationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Str("verification_id", verificationID).Msg("verification re-read failed, skipping notification")
		}
		return
	}

	policy := s.policies.Resolve(ctx, verification.CustomerID)
	if policy.WebhookURL == "" {
		return
	}

	body, err := json.Marshal(webhookPayload{
		ID:     verification.ID,
		Status: verification.Status,
		Score:  verification.Score,
		Reason: verification.DecisionReason,
		Action: action,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("verification_id", verificationID).Msg("failed to build webhook payload")
		return
	}

	signature := ""
	if policy.WebhookSecret != "" {
		signature = ComputeSignature(policy.WebhookSecret, body)
	}

	backoff := s.opts.InitialBackoff
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		err := s.deliver(ctx, policy.WebhookURL, body, signature)
		if err == nil {
			observability.WebhookAttempts().WithLabelValues("success").Inc()
			s.logger.Info().
				Str("verification_id", verificationID).
				Str("action", action).
				Int("attempt", attempt).
				Msg("webhook delivered")
			return
		}

		observability.WebhookAttempts().WithLabelValues("failure").Inc()
		s.logger.Warn().
			Err(err).
			Str("verification_id", verificationID).
			Int("attempt", attempt).
			Msg("webhook delivery attempt failed")

		if attempt < s.opts.MaxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			backoff *= 2
		}
	}

	s.logger.Error().
		Str("verification_id", verificationID).
		Str("action", action).
		Int("attempts", s.opts.MaxAttempts).
		Msg("webhook delivery exhausted retry budget")
}

func (s *webhookService) deliver(ctx context.Context, url string, body []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("webhook endpoint returned status " + resp.Status)
	}

	return nil
}

// ComputeSignature returns the signature header value for a payload:
// "sha256=" followed by the hex HMAC-SHA256 digest of the exact body bytes.
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the payload bytes.
func VerifySignature(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(ComputeSignature(secret, body)), []byte(signature))
}
