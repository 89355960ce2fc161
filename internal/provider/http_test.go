package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHTTPOCRExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body["image"])

		json.NewEncoder(w).Encode(OCRResult{Text: "DOC TEXT", Confidence: 0.91})
	}))
	defer server.Close()

	ocr := NewHTTPOCR(HTTPConfig{Endpoint: server.URL, APIKey: "test-key"}, zerolog.Nop())

	result, err := ocr.Extract(context.Background(), []byte("image bytes"))
	require.NoError(t, err)
	require.Equal(t, "DOC TEXT", result.Text)
	require.Equal(t, 0.91, result.Confidence)
}

func TestHTTPOCRNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ocr := NewHTTPOCR(HTTPConfig{Endpoint: server.URL}, zerolog.Nop())

	_, err := ocr.Extract(context.Background(), []byte("image"))
	require.ErrorIs(t, err, ErrProvider)
}

func TestHTTPFaceCompareOmitsEmptyReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasReference := body["reference"]
		require.False(t, hasReference)

		json.NewEncoder(w).Encode(FaceResult{MatchScore: 0.8, Liveness: 0.7})
	}))
	defer server.Close()

	face := NewHTTPFace(HTTPConfig{Endpoint: server.URL}, zerolog.Nop())

	result, err := face.Compare(context.Background(), []byte("selfie"), nil)
	require.NoError(t, err)
	require.Equal(t, 0.8, result.MatchScore)
	require.Equal(t, 0.7, result.Liveness)
}

func TestHTTPFaceTransportFailure(t *testing.T) {
	face := NewHTTPFace(HTTPConfig{Endpoint: "http://127.0.0.1:1"}, zerolog.Nop())

	_, err := face.Compare(context.Background(), []byte("selfie"), nil)
	require.ErrorIs(t, err, ErrProvider)
}
