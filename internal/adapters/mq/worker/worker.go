// Package worker applies queued rating events to the user ledger.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/melodex/internal/domain/model"
	"github.com/okian/melodex/pkg/logger"
	"github.com/okian/melodex/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = model.RatingEvent

// Applier validates and applies a rating event to the ledger.
type Applier interface {
	ApplyRating(ctx context.Context, e Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker drains the queue and writes ratings through the Applier.
type Worker struct {
	queue   Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(queue Queue, applier Applier, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, event); err != nil {
				w.logger.Error(ctx, "error applying rating event", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight event.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.applier.ApplyRating(ctx, event); err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "rating apply failed",
			logger.String("eventID", event.EventID),
			logger.String("userID", event.UserID),
			logger.Int("songID", event.SongID),
			logger.Error(err),
		)
		return fmt.Errorf("apply rating event %s: %w", event.EventID, err)
	}

	metrics.RecordRatingApplied()
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, queue Queue, applier Applier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = New(queue, applier, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts all workers down, bounded per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
