package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GlobalConfig
		wantErr bool
	}{
		{"defaults", DefaultGlobalConfig(), false},
		{"partial equals threshold", GlobalConfig{FullPaymentThreshold: 50000, FixedPartialAmount: 50000}, true},
		{"partial above threshold", GlobalConfig{FullPaymentThreshold: 40000, FixedPartialAmount: 50000}, true},
		{"negative threshold", GlobalConfig{FullPaymentThreshold: -1, FixedPartialAmount: -2}, true},
		{"discount over 100", GlobalConfig{FullPaymentThreshold: 10, FixedPartialAmount: 5, ReferralDiscountPercent: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, StatusAwaitingScheduling.CanTransitionTo(StatusScheduled))
	assert.True(t, StatusReadyToShip.CanTransitionTo(StatusDelivered))
	assert.True(t, StatusInProduction.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusAwaitingScheduling.CanTransitionTo(StatusProduced))
	assert.False(t, StatusScheduled.CanTransitionTo(StatusAwaitingScheduling))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusScheduled))

	assert.True(t, StatusDelivered.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}

func TestOrderApplyPayment(t *testing.T) {
	o := &Order{TotalAmount: 103000, BalanceDue: 103000}

	o.ApplyPayment(50000)
	assert.Equal(t, int64(50000), o.AmountPaid)
	assert.Equal(t, int64(53000), o.BalanceDue)

	o.ApplyPayment(53000)
	assert.Equal(t, int64(0), o.BalanceDue)
	assert.Equal(t, o.TotalAmount-o.AmountPaid, o.BalanceDue)
}

func TestPriceBreakdownTotal(t *testing.T) {
	b := PriceBreakdown{BasePrice: 85000, PackagingPrice: 10000, AccessoriesPrice: 8000}
	assert.Equal(t, int64(103000), b.Total())
}
