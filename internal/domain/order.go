package domain

import "time"

// OrderStatus represents lifecycle states for an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// CanTransitionTo reports whether the status change is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPaid:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// Order is a customer purchase with its line items.
type Order struct {
	ID         string
	Number     string
	UserID     string
	Status     OrderStatus
	TotalPrice float64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem is a single product line in an order. UnitPrice is the product
// price captured at order time.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64
}
