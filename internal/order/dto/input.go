package dto

import (
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
)

type CreateOrderInput struct {
	ClientEmail       string              `json:"client_email" validate:"required,email"`
	ProductName       string              `json:"product_name" validate:"required,max=200"`
	ProductType       string              `json:"product_type,omitempty"`
	Answers           map[string]string   `json:"answers,omitempty"`
	Notes             string              `json:"notes,omitempty" validate:"max=2000"`
	Selection         pricing.Selection   `json:"selection"`
	PaymentChoice     model.PaymentChoice `json:"payment_choice" validate:"omitempty,oneof=full partial"`
	ReferenceImageURL string              `json:"reference_image_url,omitempty" validate:"omitempty,url"`
}

type CreateOrderResult struct {
	Order *model.Order        `json:"order"`
	Plan  pricing.PaymentPlan `json:"payment_plan"`
}

type FulfillmentInput struct {
	ID                   string  `json:"id" validate:"required"`
	FinalImageURL        *string `json:"final_image_url,omitempty" validate:"omitempty,url"`
	ShippingTrackingCode *string `json:"shipping_tracking_code,omitempty" validate:"omitempty,max=64"`
}
