package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/Higirayn/Price/internal/core/service"
)

const priceServiceName = "price.v1.PriceService"

type PriceUpdate struct {
	ProductID        int64   `json:"product_id"`
	ManufacturerName string  `json:"manufacturer_name"`
	Price            float64 `json:"price"`
}

type SubmitBatchRequest struct {
	RequestID string        `json:"request_id"`
	Updates   []PriceUpdate `json:"updates"`
}

type SubmitBatchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	BatchID string `json:"batch_id,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type GetAggregateRequest struct {
	ProductID int64 `json:"product_id"`
}

type GetAggregateResponse struct {
	Found     bool               `json:"found"`
	Message   string             `json:"message,omitempty"`
	Aggregate *AggregateResponse `json:"aggregate,omitempty"`
}

type ListAggregatesRequest struct{}

type ListAggregatesResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Aggregates []AggregateResponse `json:"aggregates"`
}

type PriceServiceServer interface {
	SubmitBatch(context.Context, *SubmitBatchRequest) (*SubmitBatchResponse, error)
	GetAggregate(context.Context, *GetAggregateRequest) (*GetAggregateResponse, error)
	ListAggregates(context.Context, *ListAggregatesRequest) (*ListAggregatesResponse, error)
}

type GRPCHandler struct {
	dispatcher *service.Dispatcher
	reader     *service.AggregateReader
	log        *zap.Logger
}

func NewGRPCHandler(dispatcher *service.Dispatcher, reader *service.AggregateReader, log *zap.Logger) *GRPCHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &GRPCHandler{dispatcher: dispatcher, reader: reader, log: log.Named("grpc")}
}

// Register attaches the handler to s.
func (h *GRPCHandler) Register(s *grpc.Server) {
	s.RegisterService(&PriceServiceDesc, h)
}

func (h *GRPCHandler) SubmitBatch(ctx context.Context, req *SubmitBatchRequest) (*SubmitBatchResponse, error) {
	reqs := make([]PriceUpdateRequest, 0, len(req.Updates))
	for _, u := range req.Updates {
		reqs = append(reqs, PriceUpdateRequest(u))
	}

	batch, err := h.dispatcher.SubmitBatch(ctx, req.RequestID, toUpdates(reqs))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return &SubmitBatchResponse{
				Success: false,
				Message: err.Error(),
			}, nil
		}
		if errors.Is(err, service.ErrDuplicateBatch) {
			return &SubmitBatchResponse{
				Success: false,
				Message: "duplicate request",
			}, nil
		}
		if errors.Is(err, service.ErrClosed) {
			return &SubmitBatchResponse{
				Success: false,
				Message: "shutting down",
			}, nil
		}
		h.log.Error("submit batch failed", zap.Error(err))
		return &SubmitBatchResponse{
			Success: false,
			Message: "internal error",
		}, nil
	}

	return &SubmitBatchResponse{
		Success: true,
		Message: "price updates accepted for processing",
		BatchID: batch.ID,
		Count:   batch.Size,
	}, nil
}

func (h *GRPCHandler) GetAggregate(ctx context.Context, req *GetAggregateRequest) (*GetAggregateResponse, error) {
	agg, err := h.reader.GetAggregate(ctx, req.ProductID)
	if err != nil {
		h.log.Error("get aggregate failed", zap.Int64("product_id", req.ProductID), zap.Error(err))
		return &GetAggregateResponse{Found: false, Message: "internal error"}, nil
	}
	if agg == nil {
		return &GetAggregateResponse{Found: false, Message: "not found"}, nil
	}
	resp := toAggregateResponse(*agg)
	return &GetAggregateResponse{Found: true, Aggregate: &resp}, nil
}

func (h *GRPCHandler) ListAggregates(ctx context.Context, _ *ListAggregatesRequest) (*ListAggregatesResponse, error) {
	aggs, err := h.reader.ListAggregates(ctx)
	if err != nil {
		h.log.Error("list aggregates failed", zap.Error(err))
		return &ListAggregatesResponse{Success: false, Message: "internal error", Aggregates: []AggregateResponse{}}, nil
	}
	out := make([]AggregateResponse, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, toAggregateResponse(a))
	}
	return &ListAggregatesResponse{Success: true, Aggregates: out}, nil
}

var PriceServiceDesc = grpc.ServiceDesc{
	ServiceName: priceServiceName,
	HandlerType: (*PriceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitBatch", Handler: submitBatchHandler},
		{MethodName: "GetAggregate", Handler: getAggregateHandler},
		{MethodName: "ListAggregates", Handler: listAggregatesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "price/v1/price.proto",
}

func submitBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).SubmitBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + priceServiceName + "/SubmitBatch"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PriceServiceServer).SubmitBatch(ctx, req.(*SubmitBatchRequest))
	})
}

func getAggregateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetAggregateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).GetAggregate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + priceServiceName + "/GetAggregate"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PriceServiceServer).GetAggregate(ctx, req.(*GetAggregateRequest))
	})
}

func listAggregatesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListAggregatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).ListAggregates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + priceServiceName + "/ListAggregates"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PriceServiceServer).ListAggregates(ctx, req.(*ListAggregatesRequest))
	})
}

// PriceServiceClient calls the price service over a connection that uses the
// JSON codec.
type PriceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPriceServiceClient(cc grpc.ClientConnInterface) *PriceServiceClient {
	return &PriceServiceClient{cc: cc}
}

func (c *PriceServiceClient) SubmitBatch(ctx context.Context, in *SubmitBatchRequest, opts ...grpc.CallOption) (*SubmitBatchResponse, error) {
	out := new(SubmitBatchResponse)
	err := c.cc.Invoke(ctx, "/"+priceServiceName+"/SubmitBatch", in, out, append(opts, grpc.CallContentSubtype(CodecName))...)
	return out, err
}

func (c *PriceServiceClient) GetAggregate(ctx context.Context, in *GetAggregateRequest, opts ...grpc.CallOption) (*GetAggregateResponse, error) {
	out := new(GetAggregateResponse)
	err := c.cc.Invoke(ctx, "/"+priceServiceName+"/GetAggregate", in, out, append(opts, grpc.CallContentSubtype(CodecName))...)
	return out, err
}

func (c *PriceServiceClient) ListAggregates(ctx context.Context, in *ListAggregatesRequest, opts ...grpc.CallOption) (*ListAggregatesResponse, error) {
	out := new(ListAggregatesResponse)
	err := c.cc.Invoke(ctx, "/"+priceServiceName+"/ListAggregates", in, out, append(opts, grpc.CallContentSubtype(CodecName))...)
	return out, err
}
