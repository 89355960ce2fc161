package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// HTTPConfig configures a remote scoring backend.
type HTTPConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// HTTPOCR calls a remote vision endpoint for text extraction.
type HTTPOCR struct {
	cfg    HTTPConfig
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPOCR constructs an HTTP-backed OCR provider.
func NewHTTPOCR(cfg HTTPConfig, logger zerolog.Logger) *HTTPOCR {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &HTTPOCR{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "ocr_provider").Logger(),
	}
}

// Extract posts the image to the configured endpoint.
func (p *HTTPOCR) Extract(ctx context.Context, image []byte) (OCRResult, error) {
	var result OCRResult
	if err := postJSON(ctx, p.client, p.cfg, map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	}, &result); err != nil {
		p.logger.Warn().Err(err).Msg("ocr backend call failed")
		return OCRResult{}, err
	}

	return result, nil
}

// HTTPFace calls a remote face-comparison endpoint.
type HTTPFace struct {
	cfg    HTTPConfig
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPFace constructs an HTTP-backed face provider.
func NewHTTPFace(cfg HTTPConfig, logger zerolog.Logger) *HTTPFace {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &HTTPFace{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "face_provider").Logger(),
	}
}

// Compare posts the selfie and optional reference to the configured endpoint.
func (p *HTTPFace) Compare(ctx context.Context, selfie, reference []byte) (FaceResult, error) {
	body := map[string]string{
		"selfie": base64.StdEncoding.EncodeToString(selfie),
	}
	if len(reference) > 0 {
		body["reference"] = base64.StdEncoding.EncodeToString(reference)
	}

	var result FaceResult
	if err := postJSON(ctx, p.client, p.cfg, body, &result); err != nil {
		p.logger.Warn().Err(err).Msg("face backend call failed")
		return FaceResult{}, err
	}

	return result, nil
}

func postJSON(ctx context.Context, client *http.Client, cfg HTTPConfig, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: backend returned status %d", ErrProvider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	return nil
}
