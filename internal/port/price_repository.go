package port

import (
	"context"
	"time"

	"github.com/Higirayn/Price/internal/core/domain"
)

//go:generate mockgen -package=service -destination=../core/service/mocks_test.go -source=price_repository.go PriceRepository

type PriceRepository interface {
	// ApplyQuote upserts the quote and recomputes the product aggregate in one
	// transaction that holds the product's aggregate row lock.
	ApplyQuote(ctx context.Context, update domain.QuoteUpdate, at time.Time) (domain.Aggregate, error)

	// GetAggregate returns nil when the product has no aggregate row
	GetAggregate(ctx context.Context, productID int64) (*domain.Aggregate, error)

	// ListAggregates returns every aggregate ordered by product ID
	ListAggregates(ctx context.Context) ([]domain.Aggregate, error)
}
