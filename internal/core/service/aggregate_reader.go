package service

import (
	"context"
	"fmt"

	"github.com/Higirayn/Price/internal/core/domain"
	"github.com/Higirayn/Price/internal/port"
)

// AggregateReader serves reads straight from the aggregate table. A reader may
// see the aggregate from before or after a concurrent update, never a mix.
type AggregateReader struct {
	repo port.PriceRepository
}

func NewAggregateReader(repo port.PriceRepository) *AggregateReader {
	return &AggregateReader{repo: repo}
}

// GetAggregate returns nil, nil when no update was ever applied to the product.
func (r *AggregateReader) GetAggregate(ctx context.Context, productID int64) (*domain.Aggregate, error) {
	agg, err := r.repo.GetAggregate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get aggregate %d: %w", productID, err)
	}
	return agg, nil
}

func (r *AggregateReader) ListAggregates(ctx context.Context) ([]domain.Aggregate, error) {
	aggs, err := r.repo.ListAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	if aggs == nil {
		aggs = []domain.Aggregate{}
	}
	return aggs, nil
}
