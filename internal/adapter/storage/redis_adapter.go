package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Higirayn/Price/internal/core/domain"
)

const (
	claimKeyPrefix  = "price:batch:claim:"
	resultKeyPrefix = "price:batch:result:"
	DefaultBatchTTL = 24 * time.Hour
)

// RedisAdapter records batch claims and results. It never caches quotes or
// aggregates.
type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	if ttl <= 0 {
		ttl = DefaultBatchTTL
	}
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) Claim(ctx context.Context, batchID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, claimKeyPrefix+batchID, 1, r.ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) SaveResult(ctx context.Context, result domain.BatchResult) error {
	raw, err := json.Marshal(toBatchRecord(result))
	if err != nil {
		return fmt.Errorf("encode batch result: %w", err)
	}
	return r.client.Set(ctx, resultKeyPrefix+result.BatchID, raw, r.ttl).Err()
}

func (r *RedisAdapter) GetResult(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	raw, err := r.client.Get(ctx, resultKeyPrefix+batchID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec batchRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode batch result: %w", err)
	}
	res := rec.toDomain()
	return &res, nil
}

type batchRecord struct {
	BatchID    string          `json:"batch_id"`
	Status     string          `json:"status"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Failures   []failureRecord `json:"failures,omitempty"`
	AcceptedAt time.Time       `json:"accepted_at"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
}

type failureRecord struct {
	Index            int     `json:"index"`
	ProductID        int64   `json:"product_id"`
	ManufacturerName string  `json:"manufacturer_name"`
	Price            float64 `json:"price"`
	Error            string  `json:"error"`
}

func toBatchRecord(res domain.BatchResult) batchRecord {
	rec := batchRecord{
		BatchID:    res.BatchID,
		Status:     string(res.Status),
		Total:      res.Total,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		AcceptedAt: res.AcceptedAt,
		FinishedAt: res.FinishedAt,
	}
	for _, f := range res.Failures {
		rec.Failures = append(rec.Failures, failureRecord{
			Index:            f.Index,
			ProductID:        f.Update.ProductID,
			ManufacturerName: f.Update.ManufacturerName,
			Price:            f.Update.Price,
			Error:            f.Error,
		})
	}
	return rec
}

func (rec batchRecord) toDomain() domain.BatchResult {
	res := domain.BatchResult{
		BatchID:    rec.BatchID,
		Status:     domain.BatchStatus(rec.Status),
		Total:      rec.Total,
		Succeeded:  rec.Succeeded,
		Failed:     rec.Failed,
		AcceptedAt: rec.AcceptedAt,
		FinishedAt: rec.FinishedAt,
	}
	for _, f := range rec.Failures {
		res.Failures = append(res.Failures, domain.ItemFailure{
			Index: f.Index,
			Update: domain.QuoteUpdate{
				ProductID:        f.ProductID,
				ManufacturerName: f.ManufacturerName,
				Price:            f.Price,
			},
			Error: f.Error,
		})
	}
	return res
}
