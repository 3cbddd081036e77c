package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Higirayn/Price/internal/core/domain"
)

var ErrSchemaMissing = errors.New("schema missing")

// SQLAdapter keeps product_prices and average_prices in a relational store.
type SQLAdapter struct {
	db      *sql.DB
	dialect Dialect
	stmts   statements
}

func NewSQLAdapter(db *sql.DB, dialect Dialect) (*SQLAdapter, error) {
	stmts, err := statementsFor(dialect)
	if err != nil {
		return nil, err
	}
	return &SQLAdapter{db: db, dialect: dialect, stmts: stmts}, nil
}

func (s *SQLAdapter) Dialect() Dialect { return s.dialect }

// ApplyQuote runs the upsert-and-recompute transaction. The aggregate row is
// created if needed and locked first, so transactions for the same product
// queue behind each other while other products are untouched. READ COMMITTED
// lets the recompute see every quote committed by the previous lock holder.
func (s *SQLAdapter) ApplyQuote(ctx context.Context, u domain.QuoteUpdate, at time.Time) (domain.Aggregate, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.stmts.lockAggregate, u.ProductID, at); err != nil {
		return domain.Aggregate{}, fmt.Errorf("create aggregate row: %w", err)
	}
	var previousCount int
	if err := tx.QueryRowContext(ctx, s.stmts.selectForUpdate, u.ProductID).Scan(&previousCount); err != nil {
		return domain.Aggregate{}, fmt.Errorf("lock aggregate row: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.stmts.upsertQuote, u.ProductID, u.ManufacturerName, u.Price, at); err != nil {
		return domain.Aggregate{}, fmt.Errorf("upsert quote: %w", err)
	}

	var avg sql.NullFloat64
	var count int
	if err := tx.QueryRowContext(ctx, s.stmts.recompute, u.ProductID).Scan(&avg, &count); err != nil {
		return domain.Aggregate{}, fmt.Errorf("recompute aggregate: %w", err)
	}
	if count == 0 || !avg.Valid {
		return domain.Aggregate{}, fmt.Errorf("recompute aggregate: no quotes for product %d", u.ProductID)
	}

	agg := domain.Aggregate{
		ProductID:    u.ProductID,
		AveragePrice: avg.Float64,
		OfferCount:   count,
		UpdatedAt:    at,
	}
	if _, err := tx.ExecContext(ctx, s.stmts.upsertAggregate, agg.ProductID, agg.AveragePrice, agg.OfferCount, agg.UpdatedAt); err != nil {
		return domain.Aggregate{}, fmt.Errorf("upsert aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Aggregate{}, fmt.Errorf("commit: %w", err)
	}
	return agg, nil
}

func (s *SQLAdapter) GetAggregate(ctx context.Context, productID int64) (*domain.Aggregate, error) {
	var agg domain.Aggregate
	err := s.db.QueryRowContext(ctx, s.stmts.getAggregate, productID).
		Scan(&agg.ProductID, &agg.AveragePrice, &agg.OfferCount, &agg.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query aggregate: %w", err)
	}
	return &agg, nil
}

func (s *SQLAdapter) ListAggregates(ctx context.Context) ([]domain.Aggregate, error) {
	rows, err := s.db.QueryContext(ctx, s.stmts.listAggregates)
	if err != nil {
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	defer rows.Close()

	aggs := []domain.Aggregate{}
	for rows.Next() {
		var agg domain.Aggregate
		if err := rows.Scan(&agg.ProductID, &agg.AveragePrice, &agg.OfferCount, &agg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregates: %w", err)
	}
	return aggs, nil
}

// CheckSchema fails when either table is missing. The schema is provisioned
// outside this service.
func (s *SQLAdapter) CheckSchema(ctx context.Context) error {
	for _, table := range []string{"product_prices", "average_prices"} {
		rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1 = 0")
		if err != nil {
			return fmt.Errorf("%w: table %s: %v", ErrSchemaMissing, table, err)
		}
		rows.Close()
	}
	return nil
}

// EnsureSchema creates both tables if absent. Only tests and the stress tool
// use it; the server expects an externally migrated database.
func (s *SQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.stmts.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *SQLAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
