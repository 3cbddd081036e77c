package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Higirayn/Price/internal/core/domain"
)

// Batch is the handle of an accepted batch. Items commit independently: a
// failed item never undoes the ones that already committed.
type Batch struct {
	ID         string
	Size       int
	AcceptedAt time.Time

	now func() time.Time

	mu        sync.Mutex
	pending   int
	succeeded int
	failures  []domain.ItemFailure
	errs      map[int]error
	callbacks []func(domain.BatchResult)
	result    domain.BatchResult
	done      chan struct{}
}

func newBatch(id string, size int, now func() time.Time) *Batch {
	return &Batch{
		ID:         id,
		Size:       size,
		AcceptedAt: now(),
		now:        now,
		pending:    size,
		errs:       make(map[int]error),
		done:       make(chan struct{}),
	}
}

// Done is closed once every item has either committed or failed.
func (b *Batch) Done() <-chan struct{} { return b.done }

// Wait blocks until the batch resolves or ctx is done. The returned error is
// Err() of the resolved batch, or ctx.Err().
func (b *Batch) Wait(ctx context.Context) (domain.BatchResult, error) {
	select {
	case <-b.done:
		return b.Result(), b.Err()
	case <-ctx.Done():
		return domain.BatchResult{}, ctx.Err()
	}
}

// Result returns a snapshot. Status stays pending until the batch resolves.
func (b *Batch) Result() domain.BatchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending > 0 {
		return domain.BatchResult{
			BatchID:    b.ID,
			Status:     domain.BatchStatusPending,
			Total:      b.Size,
			Succeeded:  b.succeeded,
			Failed:     len(b.failures),
			AcceptedAt: b.AcceptedAt,
		}
	}
	return b.result
}

// Err joins the StorageErrors of all failed items in submission order. It is
// nil while the batch is in flight and when every item succeeded.
func (b *Batch) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending > 0 || len(b.errs) == 0 {
		return nil
	}
	idx := make([]int, 0, len(b.errs))
	for i := range b.errs {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	errs := make([]error, 0, len(idx))
	for _, i := range idx {
		errs = append(errs, b.errs[i])
	}
	return errors.Join(errs...)
}

// OnComplete registers fn to run once with the final result. If the batch has
// already resolved fn runs immediately on the calling goroutine.
func (b *Batch) OnComplete(fn func(domain.BatchResult)) {
	b.mu.Lock()
	if b.pending > 0 {
		b.callbacks = append(b.callbacks, fn)
		b.mu.Unlock()
		return
	}
	res := b.result
	b.mu.Unlock()
	fn(res)
}

func (b *Batch) complete(index int, update domain.QuoteUpdate, err error) {
	b.mu.Lock()
	if b.pending == 0 {
		b.mu.Unlock()
		return
	}
	if err != nil {
		b.errs[index] = err
		b.failures = append(b.failures, domain.ItemFailure{Index: index, Update: update, Error: err.Error()})
	} else {
		b.succeeded++
	}
	b.pending--
	if b.pending > 0 {
		b.mu.Unlock()
		return
	}

	sort.Slice(b.failures, func(i, j int) bool { return b.failures[i].Index < b.failures[j].Index })
	status := domain.BatchStatusSucceeded
	if len(b.failures) > 0 {
		status = domain.BatchStatusFailed
	}
	b.result = domain.BatchResult{
		BatchID:    b.ID,
		Status:     status,
		Total:      b.Size,
		Succeeded:  b.succeeded,
		Failed:     len(b.failures),
		Failures:   b.failures,
		AcceptedAt: b.AcceptedAt,
		FinishedAt: b.now(),
	}
	callbacks := b.callbacks
	b.callbacks = nil
	res := b.result
	close(b.done)
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(res)
	}
}
