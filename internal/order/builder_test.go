package order

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

func TestNewTrackingCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewTrackingCode(nil)
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.True(t, IsTrackingCode(code), code)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, minTrackingCode)
		assert.LessOrEqual(t, n, maxTrackingCode)
	}
}

func TestNewTrackingCodeDeterministic(t *testing.T) {
	code, err := NewTrackingCode(bytes.NewReader([]byte{0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, "100000", code)

	code, err = NewTrackingCode(bytes.NewReader([]byte{0, 0, 42}))
	require.NoError(t, err)
	assert.Equal(t, "100042", code)
}

func TestIsTrackingCode(t *testing.T) {
	assert.True(t, IsTrackingCode("123456"))
	assert.False(t, IsTrackingCode("012345"))
	assert.False(t, IsTrackingCode("12345"))
	assert.False(t, IsTrackingCode("1234567"))
	assert.False(t, IsTrackingCode("12a456"))
	assert.False(t, IsTrackingCode(""))
}

func TestBuildOrder(t *testing.T) {
	breakdown := model.PriceBreakdown{BasePrice: 85000, PackagingPrice: 10000, AccessoriesPrice: 8000}
	o, err := BuildOrder(Draft{
		ClientEmail:   " Ana@Example.com ",
		ProductName:   "Totoro",
		PaymentChoice: model.PaymentPartial,
	}, breakdown, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.True(t, IsTrackingCode(o.TrackingCode))
	assert.Equal(t, "ana@example.com", o.ClientEmail)
	assert.Equal(t, model.StatusAwaitingScheduling, o.Status)
	assert.Equal(t, int64(103000), o.TotalAmount)
	assert.Equal(t, int64(0), o.AmountPaid)
	assert.Equal(t, o.TotalAmount, o.BalanceDue)
	assert.Equal(t, o.TotalAmount-o.AmountPaid, o.BalanceDue)
	assert.Equal(t, breakdown, o.PriceBreakdown)
	assert.Equal(t, model.PaymentPartial, o.PaymentChoice)
	assert.False(t, o.RequestDate.IsZero())
}

func TestBuildOrderRngFailure(t *testing.T) {
	_, err := BuildOrder(Draft{ProductName: "x"}, model.PriceBreakdown{}, bytes.NewReader(nil))
	assert.Error(t, err)
}
