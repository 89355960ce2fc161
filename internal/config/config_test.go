package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := Config{
		ApproveThreshold:   0.35,
		RejectThreshold:    0.75,
		OCRProvider:        ProviderStub,
		FaceProvider:       ProviderStub,
		WebhookMaxAttempts: 3,
	}

	err := cfg.validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "reject threshold")
}

func TestValidateRejectsEqualThresholds(t *testing.T) {
	cfg := Config{
		ApproveThreshold:   0.5,
		RejectThreshold:    0.5,
		OCRProvider:        ProviderStub,
		FaceProvider:       ProviderStub,
		WebhookMaxAttempts: 3,
	}

	require.Error(t, cfg.validate())
}

func TestValidateRequiresEndpointForHTTPProvider(t *testing.T) {
	cfg := Config{
		ApproveThreshold:   0.75,
		RejectThreshold:    0.35,
		OCRProvider:        ProviderHTTP,
		FaceProvider:       ProviderStub,
		WebhookMaxAttempts: 3,
	}

	err := cfg.validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ocr endpoint")
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := Config{
		ApproveThreshold:   0.75,
		RejectThreshold:    0.35,
		OCRProvider:        ProviderStub,
		FaceProvider:       ProviderStub,
		WebhookMaxAttempts: 3,
	}

	require.NoError(t, cfg.validate())
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8080", Config{AppPort: "8080"}.HTTPAddress())
	require.Equal(t, ":9090", Config{AppPort: ":9090"}.HTTPAddress())
}
