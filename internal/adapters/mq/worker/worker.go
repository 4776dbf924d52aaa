// Package worker applies queued match reports to the league.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/plains/internal/domain/league"
	"github.com/okian/plains/internal/domain/model"
	"github.com/okian/plains/pkg/logger"
	"github.com/okian/plains/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Report abstracts what workers read off the queue.
type Report = model.MatchReport

// Recorder applies a match result. Errors wrap the league status sentinels.
type Recorder interface {
	RecordMatch(ctx context.Context, winnerID, loserID int) error
}

// Queue defines how workers receive reports.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Report
}

// Worker processes reports using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)
	// Shutdown stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing reports.
type InMemoryWorker struct {
	queue    Queue
	recorder Recorder
	name     string

	processed atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	reports := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-reports:
			if !ok {
				return
			}
			if err := w.processReport(ctx, r); err != nil {
				w.logger.Warn(ctx, "report not applied", logger.String("report_id", r.ReportID), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for the current report to finish.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns how many reports this worker has applied.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

// processReport applies one report. FAILURE is a normal league outcome;
// INVALID_INPUT and ALLOCATION_ERROR are reported as errors.
func (w *InMemoryWorker) processReport(ctx context.Context, r Report) error {
	start := time.Now()
	err := w.recorder.RecordMatch(ctx, r.WinnerID, r.LoserID)
	status := league.StatusOf(err)
	metrics.RecordReportApplied(status.String(), time.Since(start))
	w.processed.Add(1)

	switch status {
	case league.Success, league.Failure:
		w.logger.Debug(ctx, "report applied",
			logger.String("report_id", r.ReportID),
			logger.String("status", status.String()),
		)
		return nil
	default:
		metrics.RecordWorkerError()
		metrics.RecordError("worker", status.String())
		return fmt.Errorf("report %s (%d beat %d): %w", r.ReportID, r.WinnerID, r.LoserID, err)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. Counts below one become one.
func NewPool(workerCount int, queue Queue, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
	}
	for i := range p.workers {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(queue, recorder, wopts...)
	}
	p.logger = p.workers[0].logger
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the total number of reports applied by the pool.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Drain closes the queue and waits for workers to apply what is buffered.
func (p *Pool) Drain(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			return fmt.Errorf("drain worker %d: %w", i, ctx.Err())
		}
	}
	return nil
}

// Shutdown stops all workers without draining the queue.
func (p *Pool) Shutdown(ctx context.Context) error {
	for i, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return err
		}
	}
	return nil
}
