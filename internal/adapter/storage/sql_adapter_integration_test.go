package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Higirayn/Price/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/prices?parseTime=true&loc=UTC"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func getPostgresDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("Postgres not available: %v", err)
	}

	return db
}

// forEachDatabase runs fn against every reachable database with a fresh
// product ID range.
func forEachDatabase(t *testing.T, fn func(t *testing.T, adapter *SQLAdapter, base int64)) {
	dbs := []struct {
		dialect Dialect
		open    func(*testing.T) *sql.DB
	}{
		{DialectMySQL, getMySQLDB},
		{DialectPostgres, getPostgresDB},
	}

	for _, d := range dbs {
		t.Run(string(d.dialect), func(t *testing.T) {
			db := d.open(t)
			defer db.Close()
			db.SetMaxOpenConns(20)

			ctx := context.Background()
			adapter, err := NewSQLAdapter(db, d.dialect)
			if err != nil {
				t.Fatalf("NewSQLAdapter failed: %v", err)
			}
			if err := adapter.EnsureSchema(ctx); err != nil {
				t.Fatalf("EnsureSchema failed: %v", err)
			}

			base := time.Now().UnixNano() % 1_000_000_000 * 1000
			cleanup := func() {
				q := fmt.Sprintf("DELETE FROM %%s WHERE product_id BETWEEN %d AND %d", base, base+999)
				db.ExecContext(ctx, fmt.Sprintf(q, "product_prices"))
				db.ExecContext(ctx, fmt.Sprintf(q, "average_prices"))
			}
			cleanup()
			defer cleanup()

			fn(t, adapter, base)
		})
	}
}

func TestApplyQuote_Scenario(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, adapter *SQLAdapter, base int64) {
		ctx := context.Background()
		at := time.Now().UTC().Truncate(time.Millisecond)

		updates := []domain.QuoteUpdate{
			{ProductID: base + 1, ManufacturerName: "A", Price: 100},
			{ProductID: base + 1, ManufacturerName: "B", Price: 200},
			{ProductID: base + 2, ManufacturerName: "A", Price: 50},
		}
		for _, u := range updates {
			if _, err := adapter.ApplyQuote(ctx, u, at); err != nil {
				t.Fatalf("ApplyQuote failed: %v", err)
			}
		}

		agg, err := adapter.GetAggregate(ctx, base+1)
		if err != nil {
			t.Fatalf("GetAggregate failed: %v", err)
		}
		if agg == nil || agg.AveragePrice != 150 || agg.OfferCount != 2 {
			t.Errorf("expected average 150 over 2 offers, got %+v", agg)
		}

		agg, _ = adapter.GetAggregate(ctx, base+2)
		if agg == nil || agg.AveragePrice != 50 || agg.OfferCount != 1 {
			t.Errorf("expected average 50 over 1 offer, got %+v", agg)
		}

		// Overwrite keeps the count and moves the average.
		if _, err := adapter.ApplyQuote(ctx, domain.QuoteUpdate{ProductID: base + 1, ManufacturerName: "B", Price: 300}, at); err != nil {
			t.Fatalf("ApplyQuote failed: %v", err)
		}
		agg, _ = adapter.GetAggregate(ctx, base+1)
		if agg == nil || agg.AveragePrice != 200 || agg.OfferCount != 2 {
			t.Errorf("expected average 200 over 2 offers, got %+v", agg)
		}

		// Applying the same quote again changes nothing.
		if _, err := adapter.ApplyQuote(ctx, domain.QuoteUpdate{ProductID: base + 1, ManufacturerName: "B", Price: 300}, at); err != nil {
			t.Fatalf("ApplyQuote failed: %v", err)
		}
		agg, _ = adapter.GetAggregate(ctx, base+1)
		if agg == nil || agg.AveragePrice != 200 || agg.OfferCount != 2 {
			t.Errorf("expected idempotent apply, got %+v", agg)
		}

		var rows int
		q := "SELECT COUNT(*) FROM product_prices WHERE product_id = ? AND manufacturer_name = ?"
		if adapter.Dialect() == DialectPostgres {
			q = "SELECT COUNT(*) FROM product_prices WHERE product_id = $1 AND manufacturer_name = $2"
		}
		if err := adapter.db.QueryRowContext(ctx, q, base+1, "B").Scan(&rows); err != nil {
			t.Fatalf("count quotes failed: %v", err)
		}
		if rows != 1 {
			t.Errorf("expected one quote row for (product, B), got %d", rows)
		}

		missing, err := adapter.GetAggregate(ctx, base+999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if missing != nil {
			t.Error("expected nil for product without quotes")
		}
	})
}

func TestApplyQuote_ConcurrentSameProduct(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, adapter *SQLAdapter, base int64) {
		ctx := context.Background()
		const writers = 20
		productID := base + 10

		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := adapter.ApplyQuote(ctx, domain.QuoteUpdate{
					ProductID:        productID,
					ManufacturerName: fmt.Sprintf("m-%02d", i),
					Price:            float64(i + 1),
				}, time.Now().UTC())
				if err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("concurrent ApplyQuote failed: %v", err)
		}

		agg, err := adapter.GetAggregate(ctx, productID)
		if err != nil {
			t.Fatalf("GetAggregate failed: %v", err)
		}
		if agg == nil || agg.OfferCount != writers {
			t.Fatalf("expected %d offers, got %+v", writers, agg)
		}
		if agg.AveragePrice != 10.5 {
			t.Errorf("expected average 10.5, got %v", agg.AveragePrice)
		}
	})
}

func TestListAggregates_OrderedByProduct(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, adapter *SQLAdapter, base int64) {
		ctx := context.Background()
		for _, id := range []int64{base + 30, base + 20, base + 25} {
			if _, err := adapter.ApplyQuote(ctx, domain.QuoteUpdate{ProductID: id, ManufacturerName: "A", Price: 1}, time.Now().UTC()); err != nil {
				t.Fatalf("ApplyQuote failed: %v", err)
			}
		}

		aggs, err := adapter.ListAggregates(ctx)
		if err != nil {
			t.Fatalf("ListAggregates failed: %v", err)
		}
		var prev int64 = -1
		for _, a := range aggs {
			if a.ProductID <= prev {
				t.Fatalf("aggregates not ordered: %d after %d", a.ProductID, prev)
			}
			prev = a.ProductID
		}
		if err := adapter.CheckSchema(ctx); err != nil {
			t.Errorf("CheckSchema failed: %v", err)
		}
	})
}
