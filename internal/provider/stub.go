package provider

import "context"

// StubOCR is a deterministic OCR provider for tests and offline operation.
// Its confidence depends only on the input length, never on content, so the
// same-sized input always scores identically.
type StubOCR struct{}

// Extract returns a fixed text marker and a length-derived confidence.
func (StubOCR) Extract(ctx context.Context, image []byte) (OCRResult, error) {
	confidence := clamp(float64(len(image)%1000)/1000 + 0.5)

	return OCRResult{Text: "STUB_OCR_TEXT", Confidence: confidence}, nil
}

// StubFace is a deterministic face provider mirroring StubOCR's behavior.
type StubFace struct{}

// Compare derives match and liveness scores from the selfie length alone.
func (StubFace) Compare(ctx context.Context, selfie, reference []byte) (FaceResult, error) {
	match := clamp(float64(len(selfie)%800)/800 + 0.3)
	liveness := clamp(float64(len(selfie)%900)/900 + 0.3)

	return FaceResult{MatchScore: match, Liveness: liveness}, nil
}

func clamp(v float64) float64 {
	if v > 0.99 {
		return 0.99
	}

	return v
}
