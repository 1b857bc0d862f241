package domain

import "time"

// Brand is a product manufacturer.
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups products for browsing.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a sellable catalog entry.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Quantity    int
	Published   bool
	InStock     bool
	BrandID     *string
	CategoryID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
