package dto

import "github.com/fekuna/amigurumi-order-service/internal/model"

type CreateItemInput struct {
	Category model.ItemCategory `json:"category" validate:"required"`
	Label    string             `json:"label" validate:"required,max=120"`
	Price    int64              `json:"price" validate:"gte=0"`
}

type UpdateItemInput struct {
	ID       string             `json:"id" validate:"required"`
	Category model.ItemCategory `json:"category" validate:"required"`
	Label    string             `json:"label" validate:"required,max=120"`
	Price    int64              `json:"price" validate:"gte=0"`
}
