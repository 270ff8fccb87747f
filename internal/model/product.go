package model

import "time"

// Product represents an item in the storefront catalogue. The order
// engine only reads Category (for revenue attribution) and the stock
// flag (for dashboard counts); everything else is storefront display.
type Product struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Image        string    `json:"image" db:"image"`
	Price        float64   `json:"price" db:"price"`
	Category     string    `json:"category" db:"category"`
	IsOutOfStock bool      `json:"isOutOfStock" db:"is_out_of_stock"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CategoryCosmetics is the category that splits revenue attribution;
// every other category (including the fallback) counts as fashion.
const (
	CategoryCosmetics = "Cosmetics"
	CategoryOther     = "Other"
)
