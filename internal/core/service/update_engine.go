package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Higirayn/Price/internal/core/domain"
	"github.com/Higirayn/Price/internal/port"
)

const tracerName = "github.com/Higirayn/Price/internal/core/service"

// UpdateEngine applies single quote updates. Atomicity and per-product
// serialization come from the repository transaction, never from a lock held
// here, so updates for different products run fully in parallel.
type UpdateEngine struct {
	repo   port.PriceRepository
	log    *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewUpdateEngine(repo port.PriceRepository, log *zap.Logger) *UpdateEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &UpdateEngine{
		repo:   repo,
		log:    log.Named("engine"),
		tracer: otel.Tracer(tracerName),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (e *UpdateEngine) ApplyUpdate(ctx context.Context, update domain.QuoteUpdate) (domain.Aggregate, error) {
	if err := ValidateUpdate(0, update); err != nil {
		return domain.Aggregate{}, err
	}

	ctx, span := e.tracer.Start(ctx, "UpdateEngine.ApplyUpdate", trace.WithAttributes(
		attribute.Int64("product.id", update.ProductID),
		attribute.String("manufacturer.name", update.ManufacturerName),
	))
	defer span.End()

	agg, err := e.repo.ApplyQuote(ctx, update, e.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply quote")
		e.log.Error("price update failed",
			zap.Int64("product_id", update.ProductID),
			zap.String("manufacturer", update.ManufacturerName),
			zap.Error(err),
		)
		return domain.Aggregate{}, &StorageError{Update: update, Err: err}
	}

	e.log.Debug("price updated",
		zap.Int64("product_id", update.ProductID),
		zap.String("manufacturer", update.ManufacturerName),
		zap.Float64("average_price", agg.AveragePrice),
		zap.Int("offer_count", agg.OfferCount),
	)
	return agg, nil
}
