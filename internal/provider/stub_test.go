package provider

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStubOCRDeterministicByLength(t *testing.T) {
	ctx := context.Background()
	ocr := StubOCR{}

	first, err := ocr.Extract(ctx, bytes.Repeat([]byte("a"), 100))
	require.NoError(t, err)

	// Same length, different content: identical score.
	second, err := ocr.Extract(ctx, bytes.Repeat([]byte("z"), 100))
	require.NoError(t, err)
	require.Equal(t, first.Confidence, second.Confidence)
	require.Equal(t, "STUB_OCR_TEXT", first.Text)

	require.InDelta(t, 0.6, first.Confidence, 1e-9)
}

func TestStubOCRClampsConfidence(t *testing.T) {
	ocr := StubOCR{}

	result, err := ocr.Extract(context.Background(), bytes.Repeat([]byte("a"), 999))
	require.NoError(t, err)
	require.Equal(t, 0.99, result.Confidence)
}

func TestStubFaceDeterministicByLength(t *testing.T) {
	ctx := context.Background()
	face := StubFace{}

	first, err := face.Compare(ctx, bytes.Repeat([]byte("x"), 100), nil)
	require.NoError(t, err)

	second, err := face.Compare(ctx, bytes.Repeat([]byte("y"), 100), []byte("ignored reference"))
	require.NoError(t, err)

	require.Equal(t, first.MatchScore, second.MatchScore)
	require.Equal(t, first.Liveness, second.Liveness)

	require.InDelta(t, 0.3+100.0/800.0, first.MatchScore, 1e-9)
	require.InDelta(t, 0.3+100.0/900.0, first.Liveness, 1e-9)
}

func TestStubFaceEmptySelfie(t *testing.T) {
	face := StubFace{}

	result, err := face.Compare(context.Background(), nil, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.3, result.MatchScore, 1e-9)
	require.InDelta(t, 0.3, result.Liveness, 1e-9)
}
