package queue

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	// SubjectEvaluations is the NATS subject evaluation tasks are published to.
	SubjectEvaluations = "verify.evaluations"
	// queueGroup ensures each task is delivered to one worker across replicas.
	queueGroup = "verify-workers"
)

// NATSDispatcher publishes evaluation tasks to NATS so a restart between
// ingestion and evaluation does not lose the submission.
type NATSDispatcher struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	logger zerolog.Logger
}

// NewNATS constructs a dispatcher bound to an established NATS connection.
func NewNATS(conn *nats.Conn, logger zerolog.Logger) *NATSDispatcher {
	return &NATSDispatcher{
		conn:   conn,
		logger: logger.With().Str("component", "nats_dispatcher").Logger(),
	}
}

// Dispatch publishes the verification id to the evaluations subject.
func (d *NATSDispatcher) Dispatch(ctx context.Context, verificationID string) error {
	payload, err := encodeTask(verificationID)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation task: %w", err)
	}

	if err := d.conn.Publish(SubjectEvaluations, payload); err != nil {
		return fmt.Errorf("failed to publish evaluation task: %w", err)
	}

	return nil
}

// Subscribe joins the worker queue group and feeds decoded tasks to the handler.
func (d *NATSDispatcher) Subscribe(handler Handler) error {
	sub, err := d.conn.QueueSubscribe(SubjectEvaluations, queueGroup, func(msg *nats.Msg) {
		t, err := decodeTask(msg.Data)
		if err != nil {
			d.logger.Error().Err(err).Msg("discarding malformed evaluation task")
			return
		}

		handler(context.Background(), t.VerificationID)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectEvaluations, err)
	}

	d.sub = sub

	return nil
}

// Close drains the subscription.
func (d *NATSDispatcher) Close() {
	if d.sub != nil {
		if err := d.sub.Drain(); err != nil {
			d.logger.Warn().Err(err).Msg("failed to drain subscription")
		}
	}
}
