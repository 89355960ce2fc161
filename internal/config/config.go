package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the verification API.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	OCRProvider  string
	FaceProvider string
	OCREndpoint  string
	FaceEndpoint string
	ProviderKey  string

	ApproveThreshold float64
	RejectThreshold  float64

	WebhookSecret         string
	WebhookTimeout        time.Duration
	WebhookMaxAttempts    int
	WebhookInitialBackoff time.Duration

	ConfigCacheTTL time.Duration
}

// Provider selection values accepted for OCRProvider and FaceProvider.
const (
	ProviderStub = "stub"
	ProviderHTTP = "http"
)

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INFOTIER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Infotier Verify API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("s3.endpoint", "localhost:9000")
	v.SetDefault("s3.bucket", "infotier-evidence")
	v.SetDefault("s3.use_ssl", false)
	v.SetDefault("ocr.provider", ProviderStub)
	v.SetDefault("face.provider", ProviderStub)
	v.SetDefault("approve.threshold", 0.75)
	v.SetDefault("reject.threshold", 0.35)
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.max_attempts", 3)
	v.SetDefault("webhook.initial_backoff", "500ms")
	v.SetDefault("config.cache_ttl", "5m")

	webhookTimeout, err := time.ParseDuration(v.GetString("webhook.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid webhook timeout: %w", err)
	}

	backoff, err := time.ParseDuration(v.GetString("webhook.initial_backoff"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid webhook backoff: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("config.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid config cache ttl: %w", err)
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		DatabaseURL: v.GetString("database.url"),
		RedisURL:    v.GetString("redis.url"),
		NATSURL:     v.GetString("nats.url"),

		S3Endpoint:  v.GetString("s3.endpoint"),
		S3AccessKey: v.GetString("s3.access_key"),
		S3SecretKey: v.GetString("s3.secret_key"),
		S3Bucket:    v.GetString("s3.bucket"),
		S3UseSSL:    v.GetBool("s3.use_ssl"),

		OCRProvider:  strings.ToLower(v.GetString("ocr.provider")),
		FaceProvider: strings.ToLower(v.GetString("face.provider")),
		OCREndpoint:  v.GetString("ocr.endpoint"),
		FaceEndpoint: v.GetString("face.endpoint"),
		ProviderKey:  v.GetString("provider.api_key"),

		ApproveThreshold: v.GetFloat64("approve.threshold"),
		RejectThreshold:  v.GetFloat64("reject.threshold"),

		WebhookSecret:         v.GetString("webhook.secret"),
		WebhookTimeout:        webhookTimeout,
		WebhookMaxAttempts:    v.GetInt("webhook.max_attempts"),
		WebhookInitialBackoff: backoff,

		ConfigCacheTTL: cacheTTL,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.RejectThreshold >= c.ApproveThreshold {
		return fmt.Errorf("reject threshold %.2f must be lower than approve threshold %.2f", c.RejectThreshold, c.ApproveThreshold)
	}

	if c.ApproveThreshold > 1 || c.RejectThreshold < 0 {
		return fmt.Errorf("thresholds must fall within [0, 1]")
	}

	switch c.OCRProvider {
	case ProviderStub:
	case ProviderHTTP:
		if c.OCREndpoint == "" {
			return fmt.Errorf("ocr endpoint must be set when ocr provider is %q", ProviderHTTP)
		}
	default:
		return fmt.Errorf("unknown ocr provider %q", c.OCRProvider)
	}

	switch c.FaceProvider {
	case ProviderStub:
	case ProviderHTTP:
		if c.FaceEndpoint == "" {
			return fmt.Errorf("face endpoint must be set when face provider is %q", ProviderHTTP)
		}
	default:
		return fmt.Errorf("unknown face provider %q", c.FaceProvider)
	}

	if c.WebhookMaxAttempts <= 0 {
		return fmt.Errorf("webhook max attempts must be positive")
	}

	return nil
}
