package order

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

const (
	minTrackingCode = 100000
	maxTrackingCode = 999999
)

var codeSpan = big.NewInt(maxTrackingCode - minTrackingCode + 1)

// Draft carries the client-supplied part of a new order.
type Draft struct {
	ClientEmail       string
	ProductName       string
	Description       string
	ReferenceImageURL string
	PaymentChoice     model.PaymentChoice
	RequestDate       time.Time
}

// NewTrackingCode draws a code uniformly from [100000, 999999] using rng, or crypto/rand
// when rng is nil.
func NewTrackingCode(rng io.Reader) (string, error) {
	if rng == nil {
		rng = rand.Reader
	}
	n, err := rand.Int(rng, codeSpan)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+minTrackingCode), nil
}

// IsTrackingCode reports whether code has the shape of an issued tracking code.
func IsTrackingCode(code string) bool {
	if len(code) != 6 || code[0] == '0' {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// BuildOrder freezes a draft and its price breakdown into a new order awaiting scheduling.
// Nothing is paid yet whatever payment path the client picked: payments are recorded later
// by an admin.
func BuildOrder(d Draft, breakdown model.PriceBreakdown, rng io.Reader) (*model.Order, error) {
	code, err := NewTrackingCode(rng)
	if err != nil {
		return nil, err
	}
	requested := d.RequestDate
	if requested.IsZero() {
		requested = time.Now()
	}
	choice := d.PaymentChoice
	if choice == "" {
		choice = model.PaymentFull
	}

	total := breakdown.Total()
	return &model.Order{
		ID:                uuid.New().String(),
		TrackingCode:      code,
		ClientEmail:       strings.ToLower(strings.TrimSpace(d.ClientEmail)),
		ProductName:       strings.TrimSpace(d.ProductName),
		Description:       d.Description,
		Status:            model.StatusAwaitingScheduling,
		RequestDate:       requested.UTC(),
		TotalAmount:       total,
		AmountPaid:        0,
		BalanceDue:        total,
		PaymentChoice:     choice,
		ReferenceImageURL: d.ReferenceImageURL,
		PriceBreakdown:    breakdown,
		UpdatedAt:         requested.UTC(),
	}, nil
}
