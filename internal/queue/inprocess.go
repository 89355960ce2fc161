package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

const inProcessBufferSize = 64

// InProcessDispatcher runs evaluations on goroutines inside the API process.
// Tasks queued here are lost on restart; NATS is the durable option for
// production deployments.
type InProcessDispatcher struct {
	tasks   chan string
	logger  zerolog.Logger
	once    sync.Once
	closed  chan struct{}
	done    sync.WaitGroup
	workers int
}

// NewInProcess constructs an in-process dispatcher with the given worker count.
func NewInProcess(workers int, logger zerolog.Logger) *InProcessDispatcher {
	if workers <= 0 {
		workers = 1
	}

	return &InProcessDispatcher{
		tasks:   make(chan string, inProcessBufferSize),
		logger:  logger.With().Str("component", "inprocess_dispatcher").Logger(),
		closed:  make(chan struct{}),
		workers: workers,
	}
}

// Dispatch queues a verification id for evaluation without blocking the caller
// beyond buffer capacity.
func (d *InProcessDispatcher) Dispatch(ctx context.Context, verificationID string) error {
	select {
	case <-d.closed:
		return fmt.Errorf("dispatcher closed")
	default:
	}

	select {
	case <-d.closed:
		return fmt.Errorf("dispatcher closed")
	case d.tasks <- verificationID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe starts the worker goroutines feeding the handler.
func (d *InProcessDispatcher) Subscribe(handler Handler) error {
	for i := 0; i < d.workers; i++ {
		d.done.Add(1)
		go func() {
			defer d.done.Done()
			for {
				select {
				case <-d.closed:
					return
				case id := <-d.tasks:
					d.run(handler, id)
				}
			}
		}()
	}

	return nil
}

func (d *InProcessDispatcher) run(handler Handler, id string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Str("verification_id", id).Msg("evaluation handler panicked")
		}
	}()

	handler(context.Background(), id)
}

// Close stops the workers. Queued but unstarted tasks are dropped.
func (d *InProcessDispatcher) Close() {
	d.once.Do(func() {
		close(d.closed)
	})
	d.done.Wait()
}
