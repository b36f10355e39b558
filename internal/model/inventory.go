package model

import "time"

type ItemCategory string

const (
	CategorySize      ItemCategory = "size"
	CategoryPackaging ItemCategory = "packaging"
	CategoryAccessory ItemCategory = "accessory"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategorySize, CategoryPackaging, CategoryAccessory:
		return true
	}
	return false
}

// InventoryItem is a purchasable option of the request form. Prices are in the smallest
// currency unit.
type InventoryItem struct {
	ID        string       `db:"id" json:"id"`
	Category  ItemCategory `db:"category" json:"category"`
	Label     string       `db:"label" json:"label"`
	Price     int64        `db:"price" json:"price"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}
