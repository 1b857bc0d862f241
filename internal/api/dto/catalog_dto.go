package dto

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// ProductRequest payload for creating or updating a product.
type ProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Published   bool    `json:"published"`
	InStock     bool    `json:"in_stock"`
	BrandID     *string `json:"brand_id"`
	CategoryID  *string `json:"category_id"`
}

// NameRequest payload for brand and category writes.
type NameRequest struct {
	Name string `json:"name"`
}

// ProductResponse is the catalog entry shape.
type ProductResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Published   bool      `json:"published"`
	InStock     bool      `json:"in_stock"`
	BrandID     *string   `json:"brand_id"`
	CategoryID  *string   `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Published:   product.Published,
		InStock:     product.InStock,
		BrandID:     product.BrandID,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NamedResponse is the brand/category shape.
type NamedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBrandResponse maps a domain brand.
func NewBrandResponse(brand *domain.Brand) NamedResponse {
	return NamedResponse{ID: brand.ID, Name: brand.Name, CreatedAt: brand.CreatedAt, UpdatedAt: brand.UpdatedAt}
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) NamedResponse {
	return NamedResponse{ID: category.ID, Name: category.Name, CreatedAt: category.CreatedAt, UpdatedAt: category.UpdatedAt}
}
