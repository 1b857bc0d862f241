package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// OrderItemInput is a requested order line.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderService manages order capture and status transitions.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, products: products, dispatcher: dispatcher}
}

// PlaceOrder prices the requested items from the catalog and persists the
// order. The total is always computed server-side.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError(map[string]any{"items": "At least one item is required."})
	}

	order := &domain.Order{
		Number: uuid.NewString(),
		UserID: userID,
		Status: domain.OrderStatusPending,
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.NewValidationError(map[string]any{
				fmt.Sprintf("items.%d.quantity", i): "The quantity must be at least 1.",
			})
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError(map[string]any{
					fmt.Sprintf("items.%d.product_id", i): "The selected product is invalid.",
				})
			}
			return nil, err
		}
		if !product.Published || !product.InStock {
			return nil, apperrors.NewValidationError(map[string]any{
				fmt.Sprintf("items.%d.product_id", i): "The selected product is unavailable.",
			})
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		order.TotalPrice += product.Price * float64(item.Quantity)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventOrderPlaced,
			SubjectID: order.ID,
			Payload: events.OrderPlacedPayload{
				Number:     order.Number,
				UserID:     order.UserID,
				TotalPrice: order.TotalPrice,
				ItemCount:  len(order.Items),
			},
		})
	}
	return order, nil
}

// GetOrder returns the order when the caller owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, caller *domain.User, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !caller.IsAdmin && order.UserID != caller.ID {
		return nil, apperrors.NewNotAuthorized("not your order")
	}
	return order, nil
}

// ListOrders returns all orders for admins, the caller's own otherwise.
func (s *OrderService) ListOrders(ctx context.Context, caller *domain.User, limit, offset int) ([]domain.Order, error) {
	if caller.IsAdmin {
		return s.orders.List(ctx, limit, offset)
	}
	return s.orders.ListByUser(ctx, caller.ID, limit, offset)
}

// UpdateStatus applies a status transition.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.NewValidationError(map[string]any{
			"status": fmt.Sprintf("Cannot transition from %s to %s.", order.Status, next),
		})
	}
	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, apperrors.MapError(err)
	}

	old := order.Status
	order.Status = next
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventOrderStatusChanged,
			SubjectID: order.ID,
			Payload:   events.OrderStatusChangedPayload{OldStatus: old, NewStatus: next},
		})
	}
	return order, nil
}
