package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Higirayn/Price/internal/core/service"
)

const (
	actionUpdatePrice         = "updatePrice"
	actionSubmitBatch         = "submitBatch"
	actionGetAveragePrice     = "getAveragePrice"
	actionGetAllAveragePrices = "getAllAveragePrices"

	wsWriteTimeout = 5 * time.Second
)

type WSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type WSReply struct {
	Action string `json:"action"`
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type productQuery struct {
	ProductID int64 `json:"productId"`
}

// WSHandler serves the same operations as the HTTP API over a single socket.
// updatePrice is applied synchronously and answers with the new aggregate.
type WSHandler struct {
	engine     *service.UpdateEngine
	dispatcher *service.Dispatcher
	reader     *service.AggregateReader
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

func NewWSHandler(engine *service.UpdateEngine, dispatcher *service.Dispatcher, reader *service.AggregateReader, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		engine:     engine,
		dispatcher: dispatcher,
		reader:     reader,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.Named("ws"),
	}
}

func (h *WSHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/price", h.ServeHTTP)
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.log.Debug("connection opened", zap.String("remote", r.RemoteAddr))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read failed", zap.Error(err))
			}
			return
		}

		reply := h.dispatch(r.Context(), raw)
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			h.log.Warn("write failed", zap.Error(err))
			return
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, raw []byte) WSReply {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return WSReply{Action: "error", Status: statusError, Data: "invalid message: " + err.Error()}
	}

	data, err := h.handle(ctx, msg)
	if err != nil {
		return WSReply{Action: msg.Action, Status: statusError, Data: err.Error()}
	}
	return WSReply{Action: msg.Action, Status: statusSuccess, Data: data}
}

func (h *WSHandler) handle(ctx context.Context, msg WSMessage) (any, error) {
	switch msg.Action {
	case actionUpdatePrice:
		var req PriceUpdateRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		agg, err := h.engine.ApplyUpdate(ctx, toUpdates([]PriceUpdateRequest{req})[0])
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				return nil, err
			}
			return nil, errors.New("failed to update price")
		}
		return toAggregateResponse(agg), nil

	case actionSubmitBatch:
		var req []PriceUpdateRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		batch, err := h.dispatcher.SubmitBatch(ctx, "", toUpdates(req))
		if err != nil {
			return nil, err
		}
		return BatchAcceptedResponse{BatchID: batch.ID, Count: batch.Size}, nil

	case actionGetAveragePrice:
		var q productQuery
		if err := json.Unmarshal(msg.Data, &q); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		agg, err := h.reader.GetAggregate(ctx, q.ProductID)
		if err != nil {
			return nil, errors.New("failed to read average price")
		}
		if agg == nil {
			return nil, nil
		}
		return toAggregateResponse(*agg), nil

	case actionGetAllAveragePrices:
		aggs, err := h.reader.ListAggregates(ctx)
		if err != nil {
			return nil, errors.New("failed to read average prices")
		}
		out := make([]AggregateResponse, 0, len(aggs))
		for _, a := range aggs {
			out = append(out, toAggregateResponse(a))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
}
