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
	"github.com/fekuna/amigurumi-order-service/internal/catalog"
	"github.com/fekuna/amigurumi-order-service/internal/catalog/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
	"github.com/fekuna/amigurumi-order-service/pkg/structrpc"
)

const ServiceName = "amigurumi.catalog.v1.CatalogService"

// CatalogServer is the method set served under ServiceName.
type CatalogServer interface {
	ListItems(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	CreateItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	DeleteItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		structrpc.Unary[CatalogServer](ServiceName, "ListItems", CatalogServer.ListItems),
		structrpc.Unary[CatalogServer](ServiceName, "GetItem", CatalogServer.GetItem),
		structrpc.Unary[CatalogServer](ServiceName, "CreateItem", CatalogServer.CreateItem),
		structrpc.Unary[CatalogServer](ServiceName, "UpdateItem", CatalogServer.UpdateItem),
		structrpc.Unary[CatalogServer](ServiceName, "DeleteItem", CatalogServer.DeleteItem),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "amigurumi/catalog/v1/catalog.proto",
}

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func Register(s grpc.ServiceRegistrar, h *CatalogHandler) {
	s.RegisterService(&ServiceDesc, h)
}

type listItemsRequest struct {
	Category model.ItemCategory `json:"category"`
}

type itemsResponse struct {
	Items []model.InventoryItem `json:"items"`
}

type idRequest struct {
	ID string `json:"id" validate:"required"`
}

func (h *CatalogHandler) ListItems(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req listItemsRequest
	if err := structrpc.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := h.uc.ListItems(ctx, req.Category)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(itemsResponse{Items: items})
}

func (h *CatalogHandler) GetItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req idRequest
	if err := structrpc.Bind(in, &req); err != nil {
		return nil, err
	}

	item, err := h.uc.GetItem(ctx, req.ID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	if item == nil {
		return nil, status.Error(codes.NotFound, catalog.ErrItemNotFound.Error())
	}
	return structrpc.Encode(item)
}

func (h *CatalogHandler) CreateItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var input dto.CreateItemInput
	if err := structrpc.Bind(in, &input); err != nil {
		return nil, err
	}

	item, err := h.uc.CreateItem(ctx, &input)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(item)
}

func (h *CatalogHandler) UpdateItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var input dto.UpdateItemInput
	if err := structrpc.Bind(in, &input); err != nil {
		return nil, err
	}

	item, err := h.uc.UpdateItem(ctx, &input)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(item)
}

func (h *CatalogHandler) DeleteItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var req idRequest
	if err := structrpc.Bind(in, &req); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteItem(ctx, req.ID); err != nil {
		return nil, h.toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func (h *CatalogHandler) toStatus(err error) error {
	if st, ok := auth.GRPCStatus(err); ok {
		return st
	}
	switch {
	case errors.Is(err, catalog.ErrInvalidCategory), errors.Is(err, catalog.ErrNegativePrice):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, catalog.ErrItemNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	h.logger.Error("catalog request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
