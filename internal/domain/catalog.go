package domain

import "time"

// Category groups products.
type Category struct {
	ID          int64
	Name        string
	Description *string
}

// Product is a catalog entry.
type Product struct {
	ID          int64
	CategoryID  *int64
	CategoryName *string
	Name        string
	Description *string
	Price       float64
	Stock       int
	ImageURL    *string
	IsAvailable bool
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// LowStockThreshold marks products that need restocking.
const LowStockThreshold = 10
