package handler

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Higirayn/Price/internal/core/domain"
	"github.com/Higirayn/Price/internal/core/service"
)

// fakeRepo is an in-memory PriceRepository.
type fakeRepo struct {
	mu     sync.Mutex
	quotes map[int64]map[string]float64
	aggs   map[int64]domain.Aggregate
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		quotes: make(map[int64]map[string]float64),
		aggs:   make(map[int64]domain.Aggregate),
	}
}

func (f *fakeRepo) ApplyQuote(ctx context.Context, u domain.QuoteUpdate, at time.Time) (domain.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Aggregate{}, f.err
	}
	if f.quotes[u.ProductID] == nil {
		f.quotes[u.ProductID] = make(map[string]float64)
	}
	f.quotes[u.ProductID][u.ManufacturerName] = u.Price

	var sum float64
	for _, p := range f.quotes[u.ProductID] {
		sum += p
	}
	n := len(f.quotes[u.ProductID])
	agg := domain.Aggregate{ProductID: u.ProductID, AveragePrice: sum / float64(n), OfferCount: n, UpdatedAt: at}
	f.aggs[u.ProductID] = agg
	return agg, nil
}

func (f *fakeRepo) GetAggregate(ctx context.Context, productID int64) (*domain.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	agg, ok := f.aggs[productID]
	if !ok {
		return nil, nil
	}
	return &agg, nil
}

func (f *fakeRepo) ListAggregates(ctx context.Context) ([]domain.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Aggregate, 0, len(f.aggs))
	for _, a := range f.aggs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// memRegistry is a minimal BatchRegistry.
type memRegistry struct {
	mu      sync.Mutex
	claimed map[string]bool
	results map[string]domain.BatchResult
}

func newMemRegistry() *memRegistry {
	return &memRegistry{claimed: make(map[string]bool), results: make(map[string]domain.BatchResult)}
}

func (r *memRegistry) Claim(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed[id] {
		return false, nil
	}
	r.claimed[id] = true
	return true, nil
}

func (r *memRegistry) SaveResult(ctx context.Context, res domain.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[res.BatchID] = res
	return nil
}

func (r *memRegistry) GetResult(ctx context.Context, id string) (*domain.BatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

type services struct {
	repo       *fakeRepo
	engine     *service.UpdateEngine
	dispatcher *service.Dispatcher
	reader     *service.AggregateReader
}

func newServices(t *testing.T) *services {
	t.Helper()
	repo := newFakeRepo()
	engine := service.NewUpdateEngine(repo, nil)
	d := service.NewDispatcher(engine, newMemRegistry(), service.DispatcherConfig{Workers: 2}, nil)
	d.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		d.Close(ctx)
	})
	return &services{repo: repo, engine: engine, dispatcher: d, reader: service.NewAggregateReader(repo)}
}
