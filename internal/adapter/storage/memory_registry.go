package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Higirayn/Price/internal/core/domain"
)

// MemoryRegistry is the BatchRegistry used when Redis is not configured.
// Entries expire after ttl and are purged lazily.
type MemoryRegistry struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	claims  map[string]time.Time
	results map[string]memoryResult
}

type memoryResult struct {
	res       domain.BatchResult
	expiresAt time.Time
}

func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	if ttl <= 0 {
		ttl = DefaultBatchTTL
	}
	return &MemoryRegistry{
		ttl:     ttl,
		now:     time.Now,
		claims:  make(map[string]time.Time),
		results: make(map[string]memoryResult),
	}
}

func (m *MemoryRegistry) Claim(ctx context.Context, batchID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.claims[batchID]; ok && now.Before(exp) {
		return false, nil
	}
	m.claims[batchID] = now.Add(m.ttl)
	m.purge(now)
	return true, nil
}

func (m *MemoryRegistry) SaveResult(ctx context.Context, result domain.BatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.BatchID] = memoryResult{res: result, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryRegistry) GetResult(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.results[batchID]
	if !ok || !m.now().Before(r.expiresAt) {
		return nil, nil
	}
	res := r.res
	return &res, nil
}

func (m *MemoryRegistry) purge(now time.Time) {
	for id, exp := range m.claims {
		if !now.Before(exp) {
			delete(m.claims, id)
		}
	}
	for id, r := range m.results {
		if !now.Before(r.expiresAt) {
			delete(m.results, id)
		}
	}
}
