package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/repository"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// ProductsHandler manages catalog product endpoints.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// List GET /api/v1/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	filter := parseProductQuery(c)
	products, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Get GET /api/v1/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewProductResponse(product)})
}

// Create POST /api/v1/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), productInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"data":    dto.NewProductResponse(product),
	})
}

// Update PUT /api/v1/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	product, err := h.catalog.UpdateProduct(c.UserContext(), c.Params("id"), productInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"data":    dto.NewProductResponse(product),
	})
}

// Delete DELETE /api/v1/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Published:   req.Published,
		InStock:     req.InStock,
		BrandID:     req.BrandID,
		CategoryID:  req.CategoryID,
	}
}

func parseProductQuery(c *fiber.Ctx) repository.ProductFilter {
	filter := repository.ProductFilter{
		Limit:  parseIntQuery(c, "per_page", 15),
		Offset: 0,
	}
	if page := parseIntQuery(c, "page", 1); page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}
	if raw := c.Query("published"); raw != "" {
		if published, err := strconv.ParseBool(raw); err == nil {
			filter.Published = &published
		}
	}
	if raw := c.Query("in_stock"); raw != "" {
		if inStock, err := strconv.ParseBool(raw); err == nil {
			filter.InStock = &inStock
		}
	}
	if brandID := c.Query("brand_id"); brandID != "" {
		filter.BrandID = &brandID
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
