package model

import "time"

type OrderStatus string

const (
	StatusAwaitingScheduling OrderStatus = "awaiting scheduling"
	StatusScheduled          OrderStatus = "scheduled"
	StatusInProduction       OrderStatus = "in production"
	StatusProduced           OrderStatus = "produced"
	StatusReadyToShip        OrderStatus = "ready to ship"
	StatusDelivered          OrderStatus = "delivered"
	StatusCancelled          OrderStatus = "cancelled"
)

var statusFlow = map[OrderStatus]OrderStatus{
	StatusAwaitingScheduling: StatusScheduled,
	StatusScheduled:          StatusInProduction,
	StatusInProduction:       StatusProduced,
	StatusProduced:           StatusReadyToShip,
	StatusReadyToShip:        StatusDelivered,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusFlow[s]
	return ok || s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next directly follows s in the fulfillment flow, or is a
// cancellation of a non-terminal order.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusFlow[s] == next
}

type PaymentChoice string

const (
	PaymentFull    PaymentChoice = "full"
	PaymentPartial PaymentChoice = "partial"
)

type PriceBreakdown struct {
	BasePrice        int64 `db:"base_price" json:"base_price"`
	PackagingPrice   int64 `db:"packaging_price" json:"packaging_price"`
	AccessoriesPrice int64 `db:"accessories_price" json:"accessories_price"`
	Discount         int64 `db:"discount" json:"discount"`
}

func (b PriceBreakdown) Total() int64 {
	return b.BasePrice + b.PackagingPrice + b.AccessoriesPrice - b.Discount
}

type Order struct {
	ID                   string        `db:"id" json:"id"`
	TrackingCode         string        `db:"tracking_code" json:"tracking_code"`
	ClientEmail          string        `db:"client_email" json:"client_email"`
	ProductName          string        `db:"product_name" json:"product_name"`
	Description          string        `db:"description" json:"description"`
	Status               OrderStatus   `db:"status" json:"status"`
	RequestDate          time.Time     `db:"request_date" json:"request_date"`
	TotalAmount          int64         `db:"total_amount" json:"total_amount"`
	AmountPaid           int64         `db:"amount_paid" json:"amount_paid"`
	BalanceDue           int64         `db:"balance_due" json:"balance_due"`
	PaymentChoice        PaymentChoice `db:"payment_choice" json:"payment_choice"`
	ReferenceImageURL    string        `db:"reference_image_url" json:"reference_image_url"`
	FinalImageURL        *string       `db:"final_image_url" json:"final_image_url,omitempty"`
	ShippingTrackingCode *string       `db:"shipping_tracking_code" json:"shipping_tracking_code,omitempty"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updated_at"`

	PriceBreakdown `json:"price_breakdown"`
}

// ApplyPayment adds amount to AmountPaid and recomputes BalanceDue.
func (o *Order) ApplyPayment(amount int64) {
	o.AmountPaid += amount
	o.BalanceDue = o.TotalAmount - o.AmountPaid
}
