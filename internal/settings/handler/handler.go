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
	"github.com/fekuna/amigurumi-order-service/internal/settings"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
	"github.com/fekuna/amigurumi-order-service/pkg/structrpc"
)

const ServiceName = "amigurumi.settings.v1.SettingsService"

type SettingsServer interface {
	GetSettings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateSettings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SettingsServer)(nil),
	Methods: []grpc.MethodDesc{
		structrpc.Unary[SettingsServer](ServiceName, "GetSettings", SettingsServer.GetSettings),
		structrpc.Unary[SettingsServer](ServiceName, "UpdateSettings", SettingsServer.UpdateSettings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "amigurumi/settings/v1/settings.proto",
}

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{uc: uc, logger: log}
}

func Register(s grpc.ServiceRegistrar, h *SettingsHandler) {
	s.RegisterService(&ServiceDesc, h)
}

type updateSettingsRequest struct {
	FullPaymentThreshold    int64 `json:"full_payment_threshold" validate:"gte=0"`
	FixedPartialAmount      int64 `json:"fixed_partial_amount" validate:"gte=0"`
	ReferralDiscountPercent int64 `json:"referral_discount_percent" validate:"gte=0,lte=100"`
}

func (h *SettingsHandler) GetSettings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := h.uc.Get(ctx)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(cfg)
}

func (h *SettingsHandler) UpdateSettings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, h.toStatus(err)
	}
	var req updateSettingsRequest
	if err := structrpc.Bind(in, &req); err != nil {
		return nil, err
	}

	cfg, err := h.uc.Update(ctx, model.GlobalConfig{
		FullPaymentThreshold:    req.FullPaymentThreshold,
		FixedPartialAmount:      req.FixedPartialAmount,
		ReferralDiscountPercent: req.ReferralDiscountPercent,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}
	return structrpc.Encode(cfg)
}

func (h *SettingsHandler) toStatus(err error) error {
	if st, ok := auth.GRPCStatus(err); ok {
		return st
	}
	if errors.Is(err, model.ErrInvalidConfig) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	h.logger.Error("settings request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
