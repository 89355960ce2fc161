// Package queue provides the dispatch boundary between evidence ingestion and
// asynchronous evaluation. Delivery is at-least-once; the evaluation handler is
// idempotent, so redelivery of the same verification id is harmless.
package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Handler processes a dispatched verification id. It must not panic and must
// swallow its own errors; the queue has no dead-letter path.
type Handler func(ctx context.Context, verificationID string)

// Dispatcher hands verification ids from the ingestion path to evaluation workers.
type Dispatcher interface {
	Dispatch(ctx context.Context, verificationID string) error
	Subscribe(handler Handler) error
	Close()
}

// task is the wire envelope for a dispatched evaluation.
type task struct {
	VerificationID string    `json:"verification_id"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

func encodeTask(verificationID string) ([]byte, error) {
	return json.Marshal(task{VerificationID: verificationID, EnqueuedAt: time.Now().UTC()})
}

func decodeTask(data []byte) (task, error) {
	var t task
	err := json.Unmarshal(data, &t)
	return t, err
}
