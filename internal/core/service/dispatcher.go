package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Higirayn/Price/internal/core/domain"
	"github.com/Higirayn/Price/internal/port"
)

const registryTimeout = 5 * time.Second

type Updater interface {
	ApplyUpdate(ctx context.Context, update domain.QuoteUpdate) (domain.Aggregate, error)
}

type DispatcherConfig struct {
	Workers       int
	QueueSize     int
	UpdateTimeout time.Duration
}

type job struct {
	batch  *Batch
	index  int
	update domain.QuoteUpdate
	span   trace.SpanContext
}

// Dispatcher fans batches out to a fixed pool of workers. SubmitBatch only
// validates and enqueues; items are applied in the background.
type Dispatcher struct {
	engine   Updater
	registry port.BatchRegistry
	cfg      DispatcherConfig
	log      *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time

	jobs      chan job
	workers   sync.WaitGroup
	feeders   sync.WaitGroup
	startOnce sync.Once
	inFlight  atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher builds a dispatcher. registry may be nil, in which case
// request IDs are not deduplicated and batch results are not recorded.
func NewDispatcher(engine Updater, registry port.BatchRegistry, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		engine:   engine,
		registry: registry,
		cfg:      cfg,
		log:      log.Named("dispatcher"),
		tracer:   otel.Tracer(tracerName),
		now:      func() time.Time { return time.Now().UTC() },
		jobs:     make(chan job, cfg.QueueSize),
	}
}

// Start launches the worker pool. Calling it more than once is a no-op.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.cfg.Workers; i++ {
			d.workers.Add(1)
			go func(id int) {
				defer d.workers.Done()
				d.workerLoop(id)
			}(i)
		}
		d.log.Info("started workers", zap.Int("workers", d.cfg.Workers), zap.Int("queue_size", d.cfg.QueueSize))
	})
}

func (d *Dispatcher) Workers() int { return d.cfg.Workers }

// InFlight is the number of accepted items that have not finished yet.
func (d *Dispatcher) InFlight() int64 { return d.inFlight.Load() }

// SubmitBatch validates the whole batch, then hands every item to the pool and
// returns without waiting for any of them. A non-empty requestID becomes the
// batch ID and is claimed in the registry so a resubmission is rejected.
func (d *Dispatcher) SubmitBatch(ctx context.Context, requestID string, updates []domain.QuoteUpdate) (*Batch, error) {
	if err := ValidateBatch(updates); err != nil {
		return nil, err
	}
	if d.isClosed() {
		return nil, ErrClosed
	}

	id := requestID
	if id == "" {
		id = uuid.NewString()
	} else if d.registry != nil {
		ok, err := d.registry.Claim(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("claim batch %s: %w", id, err)
		}
		if !ok {
			return nil, ErrDuplicateBatch
		}
	}

	batch := newBatch(id, len(updates), d.now)
	_, span := d.tracer.Start(ctx, "Dispatcher.Batch", trace.WithAttributes(
		attribute.String("batch.id", id),
		attribute.Int("batch.size", len(updates)),
	))
	batch.OnComplete(func(res domain.BatchResult) {
		if res.Failed > 0 {
			span.SetStatus(codes.Error, fmt.Sprintf("%d of %d updates failed", res.Failed, res.Total))
		}
		span.End()
		d.record(res)
	})
	d.record(batch.Result())

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		span.End()
		return nil, ErrClosed
	}
	d.feeders.Add(1)
	d.inFlight.Add(int64(len(updates)))
	d.mu.RUnlock()

	go d.feed(batch, updates, span.SpanContext())

	d.log.Info("batch accepted", zap.String("batch_id", id), zap.Int("size", len(updates)))
	return batch, nil
}

// Close stops intake, lets every accepted item finish, then stops the
// workers. It returns ctx.Err() if draining outlives ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.Start()
	d.log.Info("draining", zap.Int64("in_flight", d.InFlight()))

	done := make(chan struct{})
	go func() {
		d.feeders.Wait()
		close(d.jobs)
		d.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info("workers stopped")
		return nil
	case <-ctx.Done():
		d.log.Warn("drain timed out", zap.Int64("in_flight", d.InFlight()))
		return ctx.Err()
	}
}

func (d *Dispatcher) isClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

func (d *Dispatcher) feed(batch *Batch, updates []domain.QuoteUpdate, span trace.SpanContext) {
	defer d.feeders.Done()
	for i, u := range updates {
		d.jobs <- job{batch: batch, index: i, update: u, span: span}
	}
}

func (d *Dispatcher) workerLoop(id int) {
	for j := range d.jobs {
		ctx := trace.ContextWithSpanContext(context.Background(), j.span)
		cancel := func() {}
		if d.cfg.UpdateTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, d.cfg.UpdateTimeout)
		}

		_, err := d.engine.ApplyUpdate(ctx, j.update)
		cancel()
		if err != nil {
			d.log.Warn("update failed",
				zap.Int("worker", id),
				zap.String("batch_id", j.batch.ID),
				zap.Int("index", j.index),
				zap.Error(err),
			)
		}

		d.inFlight.Add(-1)
		j.batch.complete(j.index, j.update, err)
	}
}

func (d *Dispatcher) record(res domain.BatchResult) {
	switch res.Status {
	case domain.BatchStatusSucceeded:
		d.log.Info("batch processed", zap.String("batch_id", res.BatchID), zap.Int("total", res.Total))
	case domain.BatchStatusFailed:
		d.log.Error("batch finished with failures",
			zap.String("batch_id", res.BatchID),
			zap.Int("total", res.Total),
			zap.Int("failed", res.Failed),
		)
	}
	if d.registry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), registryTimeout)
	defer cancel()
	if err := d.registry.SaveResult(ctx, res); err != nil {
		d.log.Warn("failed to record batch result", zap.String("batch_id", res.BatchID), zap.Error(err))
	}
}

// BatchResult looks up a batch in the registry. It returns nil when the batch
// is unknown or no registry is configured.
func (d *Dispatcher) BatchResult(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	if d.registry == nil {
		return nil, nil
	}
	res, err := d.registry.GetResult(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", batchID, err)
	}
	return res, nil
}
