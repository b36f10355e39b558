package dto

import "github.com/fekuna/amigurumi-order-service/internal/model"

type ItemFilters struct {
	Category model.ItemCategory `json:"category,omitempty"`
}
