package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	// Create inserts the order and its items in a single transaction.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const orderQuery = `
        INSERT INTO orders (number, user_id, status, total_price)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, orderQuery,
		order.Number,
		order.UserID,
		order.Status,
		order.TotalPrice,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const itemQuery = `
        INSERT INTO order_items (order_id, product_id, quantity, unit_price)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(ctx, itemQuery,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, number, user_id, status, total_price, created_at, updated_at
        FROM orders WHERE id=$1`

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Number,
		&order.UserID,
		&order.Status,
		&order.TotalPrice,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	const query = `
        SELECT id, number, user_id, status, total_price, created_at, updated_at
        FROM orders WHERE user_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.listOrders(ctx, query, userID, normalizeLimit(limit), offset)
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	const query = `
        SELECT id, number, user_id, status, total_price, created_at, updated_at
        FROM orders
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listOrders(ctx, query, normalizeLimit(limit), offset)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Number,
			&order.UserID,
			&order.Status,
			&order.TotalPrice,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) listItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
        SELECT id, order_id, product_id, quantity, unit_price
        FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
