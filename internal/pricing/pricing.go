// Package pricing turns a request-form selection into a price breakdown and decides which
// payment plans the storefront offers for it. All amounts are integers in the smallest
// currency unit; nothing here fails, unknown catalog ids simply contribute zero.
package pricing

import "github.com/fekuna/amigurumi-order-service/internal/model"

// Catalog resolves selected item ids to prices.
type Catalog struct {
	items map[string]model.InventoryItem
}

func NewCatalog(items []model.InventoryItem) *Catalog {
	c := &Catalog{items: make(map[string]model.InventoryItem, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

// Price returns the price of id when it exists and belongs to category.
func (c *Catalog) Price(id string, category model.ItemCategory) (int64, bool) {
	if c == nil || id == "" {
		return 0, false
	}
	it, ok := c.items[id]
	if !ok || it.Category != category {
		return 0, false
	}
	return it.Price, true
}

func (c *Catalog) Item(id string) (model.InventoryItem, bool) {
	if c == nil {
		return model.InventoryItem{}, false
	}
	it, ok := c.items[id]
	return it, ok
}

// Selection is what the visitor picked on the request form. A predefined size and a manually
// typed base price are mutually exclusive: use SelectSize and SetManualBasePrice to change them.
type Selection struct {
	SizeID          string   `json:"size_id"`
	ManualBasePrice int64    `json:"manual_base_price"`
	PackagingID     string   `json:"packaging_id"`
	AccessoryIDs    []string `json:"accessory_ids"`
}

// SelectSize picks a predefined size and clears any manually entered base price.
func (s *Selection) SelectSize(id string) {
	s.SizeID = id
	if id != "" {
		s.ManualBasePrice = 0
	}
}

// SetManualBasePrice is ignored while a size is selected.
func (s *Selection) SetManualBasePrice(price int64) {
	if s.SizeID != "" {
		return
	}
	s.ManualBasePrice = price
}

type Breakdown struct {
	BasePrice        int64 `json:"base_price"`
	PackagingPrice   int64 `json:"packaging_price"`
	AccessoriesPrice int64 `json:"accessories_price"`
	Discount         int64 `json:"discount"`
	Total            int64 `json:"total"`
}

func (b Breakdown) PriceBreakdown() model.PriceBreakdown {
	return model.PriceBreakdown{
		BasePrice:        b.BasePrice,
		PackagingPrice:   b.PackagingPrice,
		AccessoriesPrice: b.AccessoriesPrice,
		Discount:         b.Discount,
	}
}

// ComputeTotal prices sel against catalog. A size that does not resolve falls back to the
// manual base price. Discount is not applied at request time.
func ComputeTotal(catalog *Catalog, sel Selection) Breakdown {
	var b Breakdown

	if price, ok := catalog.Price(sel.SizeID, model.CategorySize); ok {
		b.BasePrice = price
	} else if sel.ManualBasePrice > 0 {
		b.BasePrice = sel.ManualBasePrice
	}

	if price, ok := catalog.Price(sel.PackagingID, model.CategoryPackaging); ok {
		b.PackagingPrice = price
	}

	for _, id := range sel.AccessoryIDs {
		if price, ok := catalog.Price(id, model.CategoryAccessory); ok {
			b.AccessoriesPrice += price
		}
	}

	b.Total = b.BasePrice + b.PackagingPrice + b.AccessoriesPrice
	return b
}

type PaymentPlan struct {
	AllowsPartial     bool                `json:"allows_partial"`
	Choice            model.PaymentChoice `json:"choice"`
	AmountDueToday    int64               `json:"amount_due_today"`
	BalanceAfterToday int64               `json:"balance_after_today"`
}

// ComputePaymentPlan decides how much is due today. A partial payment (abono) is only offered
// when total is strictly above the full-payment threshold, and it never exceeds total.
func ComputePaymentPlan(total int64, cfg model.GlobalConfig, choice model.PaymentChoice) PaymentPlan {
	plan := PaymentPlan{
		AllowsPartial:  total > cfg.FullPaymentThreshold,
		Choice:         model.PaymentFull,
		AmountDueToday: total,
	}

	if choice == model.PaymentPartial && plan.AllowsPartial {
		plan.Choice = model.PaymentPartial
		plan.AmountDueToday = cfg.FixedPartialAmount
		if plan.AmountDueToday > total {
			plan.AmountDueToday = total
		}
		if plan.AmountDueToday < 0 {
			plan.AmountDueToday = 0
		}
	}

	plan.BalanceAfterToday = total - plan.AmountDueToday
	return plan
}

// Quote is the full answer for a request-form selection.
type Quote struct {
	Breakdown Breakdown   `json:"breakdown"`
	Plan      PaymentPlan `json:"payment_plan"`
}

func NewQuote(catalog *Catalog, sel Selection, cfg model.GlobalConfig, choice model.PaymentChoice) Quote {
	b := ComputeTotal(catalog, sel)
	return Quote{Breakdown: b, Plan: ComputePaymentPlan(b.Total, cfg, choice)}
}
