package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// BrandsHandler manages brand endpoints.
type BrandsHandler struct {
	catalog *service.CatalogService
}

// NewBrandsHandler constructs handler.
func NewBrandsHandler(catalog *service.CatalogService) *BrandsHandler {
	return &BrandsHandler{catalog: catalog}
}

// List GET /api/v1/brands.
func (h *BrandsHandler) List(c *fiber.Ctx) error {
	brands, err := h.catalog.ListBrands(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.NamedResponse, 0, len(brands))
	for i := range brands {
		items = append(items, dto.NewBrandResponse(&brands[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Get GET /api/v1/brands/:id.
func (h *BrandsHandler) Get(c *fiber.Ctx) error {
	brand, err := h.catalog.GetBrand(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewBrandResponse(brand)})
}

// Create POST /api/v1/brands.
func (h *BrandsHandler) Create(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	brand, err := h.catalog.CreateBrand(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Brand created successfully",
		"data":    dto.NewBrandResponse(brand),
	})
}

// Update PUT /api/v1/brands/:id.
func (h *BrandsHandler) Update(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	brand, err := h.catalog.UpdateBrand(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Brand updated successfully",
		"data":    dto.NewBrandResponse(brand),
	})
}

// Delete DELETE /api/v1/brands/:id.
func (h *BrandsHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteBrand(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Brand deleted successfully",
	})
}
