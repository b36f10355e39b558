package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/internal/order/dto"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
	"github.com/fekuna/amigurumi-order-service/pkg/structrpc"
)

const ServiceName = "amigurumi.order.v1.OrderService"

// OrderServer is the admin order API. Every method requires an admin session.
type OrderServer interface {
	GetOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SearchOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RecordPayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateOrderStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SetFulfillment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServer)(nil),
	Methods: []grpc.MethodDesc{
		structrpc.Unary[OrderServer](ServiceName, "GetOrder", OrderServer.GetOrder),
		structrpc.Unary[OrderServer](ServiceName, "ListOrders", OrderServer.ListOrders),
		structrpc.Unary[OrderServer](ServiceName, "SearchOrders", OrderServer.SearchOrders),
		structrpc.Unary[OrderServer](ServiceName, "RecordPayment", OrderServer.RecordPayment),
		structrpc.Unary[OrderServer](ServiceName, "UpdateOrderStatus", OrderServer.UpdateOrderStatus),
		structrpc.Unary[OrderServer](ServiceName, "SetFulfillment", OrderServer.SetFulfillment),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "amigurumi/order/v1/order.proto",
}

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func Register(s grpc.ServiceRegistrar, h *OrderHandler) {
	s.RegisterService(&ServiceDesc, h)
}

type getOrderRequest struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
}

type listOrdersResponse struct {
	Orders []model.Order `json:"orders"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
}

type recordPaymentRequest struct {
	ID     string `json:"id" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

type updateStatusRequest struct {
	ID     string            `json:"id" validate:"required"`
	Status model.OrderStatus `json:"status" validate:"required"`
}

func (h *OrderHandler) GetOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var req getOrderRequest
	if err := structrpc.Bind(in, &req); err != nil {
		return nil, err
	}

	var (
		o   *model.Order
		err error
	)
	switch {
	case req.ID != "":
		o, err = h.uc.GetOrder(ctx, req.ID)
	case req.TrackingCode != "":
		o, err = h.uc.FindByTrackingCode(ctx, req.TrackingCode)
	default:
		return nil, status.Error(codes.InvalidArgument, "id or tracking_code is required")
	}
	if err != nil {
		return nil, h.toStatus(err)
	}
	if o == nil {
		return nil, status.Error(codes.NotFound, order.ErrOrderNotFound.Error())
	}

	rc, err := h.uc.ResolveRequesterContext(ctx, o)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(struct {
		Order     *model.Order          `json:"order"`
		Requester *dto.RequesterContext `json:"requester"`
	}{o, rc})
}

func (h *OrderHandler) ListOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return h.list(ctx, in, h.uc.ListOrders)
}

func (h *OrderHandler) SearchOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return h.list(ctx, in, h.uc.SearchOrders)
}

func (h *OrderHandler) list(ctx context.Context, in *structpb.Struct, fn func(context.Context, *dto.OrderFilters) ([]model.Order, int, error)) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var filters dto.OrderFilters
	if err := structrpc.Bind(in, &filters); err != nil {
		return nil, err
	}
	filters.Normalize()

	orders, total, err := fn(ctx, &filters)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(listOrdersResponse{Orders: orders, Total: total, Page: filters.Page})
}

func (h *OrderHandler) RecordPayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := auth.RequireAdmin(ctx)
	if err != nil {
		return nil, h.toStatus(err)
	}
	var req recordPaymentRequest
	if err := structrpc.Bind(in, &req); err != nil {
		return nil, err
	}

	o, err := h.uc.RecordPayment(ctx, req.ID, req.Amount)
	if err != nil {
		return nil, h.toStatus(err)
	}
	h.logger.Info("admin recorded payment", zap.String("admin", sess.Email), zap.String("order_id", o.ID))
	return structrpc.Encode(o)
}

func (h *OrderHandler) UpdateOrderStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var req updateStatusRequest
	if err := structrpc.Bind(in, &req); err != nil {
		return nil, err
	}

	o, err := h.uc.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(o)
}

func (h *OrderHandler) SetFulfillment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var input dto.FulfillmentInput
	if err := structrpc.Bind(in, &input); err != nil {
		return nil, err
	}

	o, err := h.uc.SetFulfillment(ctx, &input)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(o)
}

func (h *OrderHandler) toStatus(err error) error {
	if st, ok := auth.GRPCStatus(err); ok {
		return st
	}
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, order.ErrInvalidPayment):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, order.ErrOrderBusy):
		return status.Error(codes.Aborted, err.Error())
	}
	h.logger.Error("order request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
