package provider

import (
	"context"
	"errors"
)

// ErrProvider indicates a scoring backend failed on transport or quota.
var ErrProvider = errors.New("provider error")

// OCRResult is the output of document text extraction.
type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// FaceResult is the output of selfie comparison.
type FaceResult struct {
	MatchScore float64 `json:"match_score"`
	Liveness   float64 `json:"liveness"`
}

// OCRProvider extracts text and a confidence score from a document image.
type OCRProvider interface {
	Extract(ctx context.Context, image []byte) (OCRResult, error)
}

// FaceProvider compares a selfie against an optional reference image and
// reports a match score plus a liveness estimate.
type FaceProvider interface {
	Compare(ctx context.Context, selfie, reference []byte) (FaceResult, error)
}
