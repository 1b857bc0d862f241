package service

import (
	"context"
	"strings"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// ProductInput carries create/update fields for a product.
type ProductInput struct {
	Title       string
	Description string
	Price       float64
	Quantity    int
	Published   bool
	InStock     bool
	BrandID     *string
	CategoryID  *string
}

// CatalogService manages products, brands and categories.
type CatalogService struct {
	products   repository.ProductRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
}

// NewCatalogService builds the service.
func NewCatalogService(products repository.ProductRepository, brands repository.BrandRepository, categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, brands: brands, categories: categories}
}

// ListProducts returns catalog entries matching the filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 15
	}
	return s.products.List(ctx, filter)
}

// GetProduct fetches one product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// CreateProduct validates and persists a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if details := s.validateProduct(ctx, input); len(details) > 0 {
		return nil, apperrors.NewValidationError(details)
	}
	product := &domain.Product{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Published:   input.Published,
		InStock:     input.InStock,
		BrandID:     input.BrandID,
		CategoryID:  input.CategoryID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct validates and applies changes to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if details := s.validateProduct(ctx, input); len(details) > 0 {
		return nil, apperrors.NewValidationError(details)
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.Price = input.Price
	product.Quantity = input.Quantity
	product.Published = input.Published
	product.InStock = input.InStock
	product.BrandID = input.BrandID
	product.CategoryID = input.CategoryID

	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListBrands returns all brands.
func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.brands.List(ctx)
}

// GetBrand fetches one brand.
func (s *CatalogService) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return brand, nil
}

// CreateBrand persists a new brand.
func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(map[string]any{"name": "The name field is required."})
	}
	brand := &domain.Brand{Name: name}
	if err := s.brands.Create(ctx, brand); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("brand already exists", map[string]any{"name": name})
		}
		return nil, err
	}
	return brand, nil
}

// UpdateBrand renames a brand.
func (s *CatalogService) UpdateBrand(ctx context.Context, id, name string) (*domain.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(map[string]any{"name": "The name field is required."})
	}
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	brand.Name = name
	if err := s.brands.Update(ctx, brand); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("brand already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return brand, nil
}

// DeleteBrand removes a brand.
func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// CreateCategory persists a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(map[string]any{"name": "The name field is required."})
	}
	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("category already exists", map[string]any{"name": name})
		}
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(map[string]any{"name": "The name field is required."})
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("category already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CatalogService) validateProduct(ctx context.Context, input ProductInput) map[string]any {
	details := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "The title field is required."
	}
	if input.Price < 0 {
		details["price"] = "The price must be at least 0."
	}
	if input.Quantity < 0 {
		details["quantity"] = "The quantity must be at least 0."
	}
	if input.BrandID != nil {
		if _, err := s.brands.GetByID(ctx, *input.BrandID); err != nil {
			details["brand_id"] = "The selected brand is invalid."
		}
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			details["category_id"] = "The selected category is invalid."
		}
	}
	return details
}
