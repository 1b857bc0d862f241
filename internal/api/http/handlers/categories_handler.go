package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// CategoriesHandler manages category endpoints.
type CategoriesHandler struct {
	catalog *service.CatalogService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(catalog *service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalog}
}

// List GET /api/v1/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.NamedResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Get GET /api/v1/categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	category, err := h.catalog.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewCategoryResponse(category)})
}

// Create POST /api/v1/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Category created successfully",
		"data":    dto.NewCategoryResponse(category),
	})
}

// Update PUT /api/v1/categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	category, err := h.catalog.UpdateCategory(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category updated successfully",
		"data":    dto.NewCategoryResponse(category),
	})
}

// Delete DELETE /api/v1/categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category deleted successfully",
	})
}
