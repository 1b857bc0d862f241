package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create POST /api/v1/orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.orders.PlaceOrder(c.UserContext(), principal.User.ID, items)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"data":    dto.NewOrderResponse(order),
	})
}

// List GET /api/v1/orders. Admins see every order, customers their own.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := parseIntQuery(c, "per_page", 50)
	offset := 0
	if page := parseIntQuery(c, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}
	orders, err := h.orders.ListOrders(c.UserContext(), principal.User, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.NewOrderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Get GET /api/v1/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	order, err := h.orders.GetOrder(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewOrderResponse(order)})
}

// UpdateStatus PATCH /api/v1/orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid payload"})
	}
	status := domain.OrderStatus(strings.ToUpper(req.Status))
	order, err := h.orders.UpdateStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated successfully",
		"data":    dto.NewOrderResponse(order),
	})
}
