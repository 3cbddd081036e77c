package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Higirayn/Price/internal/core/domain"
	"github.com/Higirayn/Price/internal/core/service"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

type HTTPHandler struct {
	dispatcher *service.Dispatcher
	reader     *service.AggregateReader
	health     HealthFunc
	log        *zap.Logger
}

type PriceUpdateRequest struct {
	ProductID        int64   `json:"product_id"`
	ManufacturerName string  `json:"manufacturer_name"`
	Price            float64 `json:"price"`
}

type AggregateResponse struct {
	ProductID    int64     `json:"productId"`
	AveragePrice float64   `json:"averagePrice"`
	OfferCount   int       `json:"offerCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type BatchAcceptedResponse struct {
	BatchID string `json:"batchId"`
	Count   int    `json:"count"`
}

type BatchStatusResponse struct {
	BatchID    string                `json:"batchId"`
	Status     string                `json:"status"`
	Total      int                   `json:"total"`
	Succeeded  int                   `json:"succeeded"`
	Failed     int                   `json:"failed"`
	Failures   []ItemFailureResponse `json:"failures,omitempty"`
	AcceptedAt time.Time             `json:"acceptedAt"`
	FinishedAt *time.Time            `json:"finishedAt,omitempty"`
}

type ItemFailureResponse struct {
	Index            int     `json:"index"`
	ProductID        int64   `json:"product_id"`
	ManufacturerName string  `json:"manufacturer_name"`
	Price            float64 `json:"price"`
	Error            string  `json:"error"`
}

// APIResponse is the envelope of every JSON reply.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func NewHTTPHandler(dispatcher *service.Dispatcher, reader *service.AggregateReader, health HealthFunc, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{dispatcher: dispatcher, reader: reader, health: health, log: log.Named("http")}
}

// Routes registers the price API on mux.
func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/prices/update", h.UpdatePrices)
	mux.HandleFunc("GET /api/prices/average", h.ListAverages)
	mux.HandleFunc("GET /api/prices/average/{productId}", h.GetAverage)
	mux.HandleFunc("GET /api/prices/batches/{batchId}", h.GetBatch)
	mux.HandleFunc("GET /health", h.HealthCheck)
}

// UpdatePrices accepts a batch and answers 202 before any update is applied.
func (h *HTTPHandler) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	var req []PriceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  statusError,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	batch, err := h.dispatcher.SubmitBatch(r.Context(), RequestIDFromContext(r.Context()), toUpdates(req))
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		switch {
		case errors.Is(err, service.ErrValidation):
			status = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, service.ErrDuplicateBatch):
			status = http.StatusConflict
			message = "duplicate request"
		case errors.Is(err, service.ErrClosed):
			status = http.StatusServiceUnavailable
			message = "shutting down"
		default:
			h.log.Error("submit batch failed", zap.Error(err))
		}

		writeJSON(w, status, APIResponse{Status: statusError, Message: message})
		return
	}

	writeJSON(w, http.StatusAccepted, APIResponse{
		Status:  statusSuccess,
		Message: "price updates accepted for processing",
		Data:    BatchAcceptedResponse{BatchID: batch.ID, Count: batch.Size},
	})
}

func (h *HTTPHandler) ListAverages(w http.ResponseWriter, r *http.Request) {
	aggs, err := h.reader.ListAggregates(r.Context())
	if err != nil {
		h.log.Error("list aggregates failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: statusError, Message: "internal error"})
		return
	}

	out := make([]AggregateResponse, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, toAggregateResponse(a))
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Status:  statusSuccess,
		Message: "average prices retrieved",
		Data:    out,
	})
}

func (h *HTTPHandler) GetAverage(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("productId")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Status:  statusError,
			Message: "invalid product id: " + raw,
		})
		return
	}

	agg, err := h.reader.GetAggregate(r.Context(), productID)
	if err != nil {
		h.log.Error("get aggregate failed", zap.Int64("product_id", productID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: statusError, Message: "internal error"})
		return
	}
	if agg == nil {
		writeJSON(w, http.StatusNotFound, APIResponse{
			Status:  statusError,
			Message: fmt.Sprintf("average price not found for product %d", productID),
		})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Status:  statusSuccess,
		Message: "average price retrieved",
		Data:    toAggregateResponse(*agg),
	})
}

func (h *HTTPHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("batchId")
	res, err := h.dispatcher.BatchResult(r.Context(), batchID)
	if err != nil {
		h.log.Error("get batch failed", zap.String("batch_id", batchID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, APIResponse{Status: statusError, Message: "internal error"})
		return
	}
	if res == nil {
		writeJSON(w, http.StatusNotFound, APIResponse{Status: statusError, Message: "batch not found: " + batchID})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Status:  statusSuccess,
		Message: "batch status retrieved",
		Data:    toBatchStatusResponse(*res),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"workers":   h.dispatcher.Workers(),
		"in_flight": h.dispatcher.InFlight(),
	})
}

func toUpdates(req []PriceUpdateRequest) []domain.QuoteUpdate {
	updates := make([]domain.QuoteUpdate, 0, len(req))
	for _, u := range req {
		updates = append(updates, domain.QuoteUpdate{
			ProductID:        u.ProductID,
			ManufacturerName: u.ManufacturerName,
			Price:            u.Price,
		})
	}
	return updates
}

func toAggregateResponse(a domain.Aggregate) AggregateResponse {
	return AggregateResponse{
		ProductID:    a.ProductID,
		AveragePrice: a.AveragePrice,
		OfferCount:   a.OfferCount,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toBatchStatusResponse(res domain.BatchResult) BatchStatusResponse {
	out := BatchStatusResponse{
		BatchID:    res.BatchID,
		Status:     string(res.Status),
		Total:      res.Total,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		AcceptedAt: res.AcceptedAt,
	}
	if !res.FinishedAt.IsZero() {
		finished := res.FinishedAt
		out.FinishedAt = &finished
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, ItemFailureResponse{
			Index:            f.Index,
			ProductID:        f.Update.ProductID,
			ManufacturerName: f.Update.ManufacturerName,
			Price:            f.Update.Price,
			Error:            f.Error,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
