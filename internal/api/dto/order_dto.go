package dto

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// OrderItemRequest is one requested line.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest payload for order capture.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest payload for status transitions.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse is one order line.
type OrderItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderResponse is the order shape.
type OrderResponse struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	UserID     string              `json:"user_id"`
	Status     domain.OrderStatus  `json:"status"`
	TotalPrice float64             `json:"total_price"`
	Items      []OrderItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// NewOrderResponse maps a domain order with its items.
func NewOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID,
		Number:     order.Number,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return resp
}
