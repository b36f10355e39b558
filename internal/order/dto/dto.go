package dto

import "github.com/fekuna/amigurumi-order-service/internal/model"

type OrderFilters struct {
	Status      model.OrderStatus `json:"status,omitempty"`
	ClientEmail string            `json:"client_email,omitempty"`
	SearchQuery string            `json:"query,omitempty"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}

// Normalize applies the default page and clamps the page size.
func (f *OrderFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

// RequesterContext is what a tracking-code lookup shows about the order's owner. Guests get
// only the order itself.
type RequesterContext struct {
	IsRegisteredClient bool             `json:"is_registered_client"`
	Client             *model.Client    `json:"client,omitempty"`
	AllOrders          []model.Order    `json:"all_orders"`
	Referrals          []model.Referral `json:"referrals"`
}
