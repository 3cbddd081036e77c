package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Higirayn/Price/internal/adapter/storage"
	"github.com/Higirayn/Price/internal/core/domain"
	"github.com/Higirayn/Price/internal/core/service"
	"github.com/Higirayn/Price/internal/database"
	"github.com/Higirayn/Price/internal/logger"
)

func main() {
	driver := flag.String("driver", "mysql", "database driver: mysql or postgres")
	dsn := flag.String("dsn", os.Getenv("STRESS_DSN"), "database DSN")
	products := flag.Int("products", 20, "number of products")
	manufacturers := flag.Int("manufacturers", 10, "manufacturers per product")
	batches := flag.Int("batches", 200, "number of concurrent batches")
	workers := flag.Int("workers", 0, "dispatcher workers, 0 for one per CPU")
	baseProduct := flag.Int64("base-product", 900_000_000, "first product id used by the run")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *dsn == "" {
		log.Fatal("dsn is required (flag -dsn or STRESS_DSN)")
	}

	ctx := context.Background()

	db, err := sql.Open(database.DriverName(*driver), *dsn)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(50)

	repo, err := storage.NewSQLAdapter(db, storage.Dialect(*driver))
	if err != nil {
		log.Fatal("failed to create adapter", zap.Error(err))
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("failed to create schema", zap.Error(err))
	}

	engine := service.NewUpdateEngine(repo, log)
	dispatcher := service.NewDispatcher(engine, storage.NewMemoryRegistry(0), service.DispatcherConfig{Workers: *workers}, log)
	dispatcher.Start()

	// Every batch touches every product with one manufacturer. A manufacturer
	// always quotes the same price, so the expected averages do not depend on
	// commit order.
	priceOf := func(m int) float64 { return float64(100 + 10*m) }

	var failedBatches atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *batches; i++ {
		updates := make([]domain.QuoteUpdate, 0, *products)
		m := i % *manufacturers
		for p := 0; p < *products; p++ {
			updates = append(updates, domain.QuoteUpdate{
				ProductID:        *baseProduct + int64(p),
				ManufacturerName: fmt.Sprintf("stress-mfr-%d", m),
				Price:            priceOf(m),
			})
		}

		batch, err := dispatcher.SubmitBatch(ctx, "", updates)
		if err != nil {
			log.Fatal("submit failed", zap.Error(err))
		}

		wg.Add(1)
		go func(b *service.Batch) {
			defer wg.Done()
			if _, err := b.Wait(ctx); err != nil {
				failedBatches.Add(1)
				log.Warn("batch failed", zap.String("batch_id", b.ID), zap.Error(err))
			}
		}(batch)
	}

	wg.Wait()
	elapsed := time.Since(start)
	if err := dispatcher.Close(ctx); err != nil {
		log.Fatal("drain failed", zap.Error(err))
	}

	used := *manufacturers
	if *batches < used {
		used = *batches
	}
	var sum float64
	for m := 0; m < used; m++ {
		sum += priceOf(m)
	}
	wantAvg := sum / float64(used)

	mismatches := 0
	for p := 0; p < *products; p++ {
		id := *baseProduct + int64(p)
		agg, err := repo.GetAggregate(ctx, id)
		if err != nil {
			log.Fatal("read failed", zap.Int64("product_id", id), zap.Error(err))
		}
		if agg == nil || agg.OfferCount != used || math.Abs(agg.AveragePrice-wantAvg) > 1e-6 {
			mismatches++
			log.Error("aggregate mismatch", zap.Int64("product_id", id), zap.Any("aggregate", agg))
		}
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Products:         %d\n", *products)
	fmt.Printf("Manufacturers:    %d\n", used)
	fmt.Printf("Batches:          %d\n", *batches)
	fmt.Printf("Updates:          %d\n", *batches**products)
	fmt.Printf("Failed batches:   %d\n", failedBatches.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if mismatches == 0 && failedBatches.Load() == 0 {
		fmt.Printf("PASS: every product averages %.2f over %d offers\n", wantAvg, used)
	} else {
		fmt.Printf("FAIL: %d products with a wrong aggregate\n", mismatches)
		os.Exit(1)
	}
}
