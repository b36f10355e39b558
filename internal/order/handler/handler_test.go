package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

type stubUseCase struct {
	order.UseCase
	paid map[string]int64
}

func (s *stubUseCase) RecordPayment(_ context.Context, id string, amount int64) (*model.Order, error) {
	if id == "missing" {
		return nil, order.ErrOrderNotFound
	}
	if amount > 1000 {
		return nil, order.ErrInvalidPayment
	}
	s.paid[id] += amount
	o := &model.Order{ID: id, TotalAmount: 1000}
	o.ApplyPayment(s.paid[id])
	return o, nil
}

func (s *stubUseCase) UpdateStatus(_ context.Context, id string, next model.OrderStatus) (*model.Order, error) {
	return nil, order.ErrInvalidTransition
}

func adminCtx() context.Context {
	return auth.WithSession(context.Background(), &model.Session{Email: "admin@example.com", Role: model.RoleAdmin})
}

func request(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestRecordPaymentRequiresAdmin(t *testing.T) {
	h := NewOrderHandler(&stubUseCase{paid: map[string]int64{}}, logger.NewNop())
	in := request(t, map[string]interface{}{"id": "o-1", "amount": 100})

	_, err := h.RecordPayment(context.Background(), in)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	clientCtx := auth.WithSession(context.Background(), &model.Session{Role: model.RoleClient})
	_, err = h.RecordPayment(clientCtx, in)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRecordPayment(t *testing.T) {
	h := NewOrderHandler(&stubUseCase{paid: map[string]int64{}}, logger.NewNop())

	out, err := h.RecordPayment(adminCtx(), request(t, map[string]interface{}{"id": "o-1", "amount": 400}))
	require.NoError(t, err)
	assert.Equal(t, float64(400), out.Fields["amount_paid"].GetNumberValue())
	assert.Equal(t, float64(600), out.Fields["balance_due"].GetNumberValue())
}

func TestRecordPaymentErrors(t *testing.T) {
	h := NewOrderHandler(&stubUseCase{paid: map[string]int64{}}, logger.NewNop())

	_, err := h.RecordPayment(adminCtx(), request(t, map[string]interface{}{"id": "o-1", "amount": 0}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.RecordPayment(adminCtx(), request(t, map[string]interface{}{"id": "o-1", "amount": 5000}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.RecordPayment(adminCtx(), request(t, map[string]interface{}{"id": "missing", "amount": 5}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	h := NewOrderHandler(&stubUseCase{}, logger.NewNop())

	_, err := h.UpdateOrderStatus(adminCtx(), request(t, map[string]interface{}{"id": "o-1", "status": "delivered"}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestServiceDescMethods(t *testing.T) {
	names := make([]string, 0, len(ServiceDesc.Methods))
	for _, m := range ServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.ElementsMatch(t, []string{"GetOrder", "ListOrders", "SearchOrders", "RecordPayment", "UpdateOrderStatus", "SetFulfillment"}, names)
}
