package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

func testCatalog() *Catalog {
	return NewCatalog([]model.InventoryItem{
		{ID: "size-15", Category: model.CategorySize, Label: "15cm", Price: 45000},
		{ID: "size-25", Category: model.CategorySize, Label: "25cm", Price: 85000},
		{ID: "pack-g", Category: model.CategoryPackaging, Label: "Caja Cartón G", Price: 10000},
		{ID: "acc-corona", Category: model.CategoryAccessory, Label: "Corona", Price: 8000},
		{ID: "acc-lazo", Category: model.CategoryAccessory, Label: "Lazo", Price: 3000},
	})
}

func testConfig() model.GlobalConfig {
	return model.GlobalConfig{FullPaymentThreshold: 70000, FixedPartialAmount: 50000, ReferralDiscountPercent: 10}
}

func TestComputeTotal(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name string
		sel  Selection
		want Breakdown
	}{
		{
			name: "size packaging and accessory",
			sel:  Selection{SizeID: "size-25", PackagingID: "pack-g", AccessoryIDs: []string{"acc-corona"}},
			want: Breakdown{BasePrice: 85000, PackagingPrice: 10000, AccessoriesPrice: 8000, Total: 103000},
		},
		{
			name: "manual base price without size",
			sel:  Selection{ManualBasePrice: 60000},
			want: Breakdown{BasePrice: 60000, Total: 60000},
		},
		{
			name: "unresolvable size falls back to the manual price",
			sel:  Selection{SizeID: "size-99", ManualBasePrice: 52000, PackagingID: "pack-g"},
			want: Breakdown{BasePrice: 52000, PackagingPrice: 10000, Total: 62000},
		},
		{
			name: "resolvable size wins over a manual price",
			sel:  Selection{SizeID: "size-25", ManualBasePrice: 52000},
			want: Breakdown{BasePrice: 85000, Total: 85000},
		},
		{
			name: "nothing selected",
			sel:  Selection{},
			want: Breakdown{},
		},
		{
			name: "unknown ids contribute zero",
			sel:  Selection{SizeID: "size-99", PackagingID: "nope", AccessoryIDs: []string{"acc-lazo", "missing"}},
			want: Breakdown{AccessoriesPrice: 3000, Total: 3000},
		},
		{
			name: "ids from the wrong category contribute zero",
			sel:  Selection{SizeID: "pack-g", PackagingID: "acc-corona", AccessoryIDs: []string{"size-15"}},
			want: Breakdown{},
		},
		{
			name: "repeated accessories add up",
			sel:  Selection{SizeID: "size-15", AccessoryIDs: []string{"acc-lazo", "acc-lazo", "acc-corona"}},
			want: Breakdown{BasePrice: 45000, AccessoriesPrice: 14000, Total: 59000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(catalog, tt.sel)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.BasePrice+got.PackagingPrice+got.AccessoriesPrice, got.Total)
			assert.Zero(t, got.Discount)
		})
	}
}

func TestComputeTotal_NilCatalog(t *testing.T) {
	got := ComputeTotal(nil, Selection{SizeID: "size-25", AccessoryIDs: []string{"acc-corona"}})
	assert.Equal(t, Breakdown{}, got)
}

func TestSelection_SizeResetsManualPrice(t *testing.T) {
	sel := Selection{}
	sel.SetManualBasePrice(60000)
	assert.Equal(t, int64(60000), ComputeTotal(testCatalog(), sel).BasePrice)

	sel.SelectSize("size-25")
	assert.Zero(t, sel.ManualBasePrice)
	assert.Equal(t, int64(85000), ComputeTotal(testCatalog(), sel).BasePrice)

	sel.SetManualBasePrice(12345)
	assert.Zero(t, sel.ManualBasePrice, "manual price is locked while a size is selected")

	sel.SelectSize("")
	sel.SetManualBasePrice(12345)
	assert.Equal(t, int64(12345), sel.ManualBasePrice)
}

func TestComputePaymentPlan(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name   string
		total  int64
		choice model.PaymentChoice
		want   PaymentPlan
	}{
		{
			name:   "partial above threshold",
			total:  103000,
			choice: model.PaymentPartial,
			want:   PaymentPlan{AllowsPartial: true, Choice: model.PaymentPartial, AmountDueToday: 50000, BalanceAfterToday: 53000},
		},
		{
			name:   "full above threshold",
			total:  103000,
			choice: model.PaymentFull,
			want:   PaymentPlan{AllowsPartial: true, Choice: model.PaymentFull, AmountDueToday: 103000},
		},
		{
			name:   "below threshold only full",
			total:  60000,
			choice: model.PaymentPartial,
			want:   PaymentPlan{AllowsPartial: false, Choice: model.PaymentFull, AmountDueToday: 60000},
		},
		{
			name:   "threshold itself is not partial",
			total:  70000,
			choice: model.PaymentPartial,
			want:   PaymentPlan{AllowsPartial: false, Choice: model.PaymentFull, AmountDueToday: 70000},
		},
		{
			name:   "one above threshold",
			total:  70001,
			choice: model.PaymentPartial,
			want:   PaymentPlan{AllowsPartial: true, Choice: model.PaymentPartial, AmountDueToday: 50000, BalanceAfterToday: 20001},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePaymentPlan(tt.total, cfg, tt.choice))
		})
	}
}

func TestComputePaymentPlan_AllowsPartialIsStrict(t *testing.T) {
	for _, threshold := range []int64{0, 1, 70000, 250000} {
		cfg := model.GlobalConfig{FullPaymentThreshold: threshold}
		for _, total := range []int64{0, threshold - 1, threshold, threshold + 1, threshold * 3} {
			plan := ComputePaymentPlan(total, cfg, model.PaymentPartial)
			assert.Equal(t, total > threshold, plan.AllowsPartial, "total=%d threshold=%d", total, threshold)
		}
	}
}

func TestComputePaymentPlan_ClampsPathologicalConfig(t *testing.T) {
	// Partial amount above the threshold can only come from a row written before validation.
	cfg := model.GlobalConfig{FullPaymentThreshold: 10000, FixedPartialAmount: 90000}

	plan := ComputePaymentPlan(20000, cfg, model.PaymentPartial)

	assert.True(t, plan.AllowsPartial)
	assert.Equal(t, int64(20000), plan.AmountDueToday)
	assert.Zero(t, plan.BalanceAfterToday)
}

func TestNewQuote(t *testing.T) {
	sel := Selection{SizeID: "size-25", PackagingID: "pack-g", AccessoryIDs: []string{"acc-corona"}}

	q := NewQuote(testCatalog(), sel, testConfig(), model.PaymentPartial)

	assert.Equal(t, int64(103000), q.Breakdown.Total)
	assert.True(t, q.Plan.AllowsPartial)
	assert.Equal(t, int64(50000), q.Plan.AmountDueToday)
	assert.Equal(t, int64(53000), q.Plan.BalanceAfterToday)
	assert.Equal(t, q.Breakdown.Total, q.Breakdown.PriceBreakdown().Total())
}
