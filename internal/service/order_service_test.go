package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

type memoryProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]*domain.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[string]*domain.Product)}
}

func (m *memoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	product.ID = fmt.Sprintf("product-%d", m.seq)
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memoryProductRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.products, id)
	return nil
}

func (m *memoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *product
	return &copied, nil
}

func (m *memoryProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, product := range m.products {
		if filter.Published != nil && product.Published != *filter.Published {
			continue
		}
		if filter.InStock != nil && product.InStock != *filter.InStock {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

type memoryOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*domain.Order
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[string]*domain.Order)}
}

func (m *memoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	order.ID = fmt.Sprintf("order-%d", m.seq)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memoryOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (m *memoryOrderRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *memoryOrderRepo) List(_ context.Context, _, _ int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (m *memoryOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = status
	return nil
}

func seedProduct(t *testing.T, repo *memoryProductRepo, price float64, published, inStock bool) string {
	t.Helper()
	product := &domain.Product{
		Title:     "Test Product",
		Price:     price,
		Quantity:  10,
		Published: published,
		InStock:   inStock,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product.ID
}

func newTestOrderService() (*OrderService, *memoryProductRepo, *memoryOrderRepo) {
	products := newMemoryProductRepo()
	orders := newMemoryOrderRepo()
	svc := NewOrderService(orders, products, events.NewInMemoryDispatcher())
	return svc, products, orders
}

func TestPlaceOrderComputesTotalServerSide(t *testing.T) {
	svc, products, _ := newTestOrderService()
	laptop := seedProduct(t, products, 1200.50, true, true)
	phone := seedProduct(t, products, 699.99, true, true)

	order, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemInput{
		{ProductID: laptop, Quantity: 2},
		{ProductID: phone, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.Number)
	assert.InDelta(t, 2*1200.50+699.99, order.TotalPrice, 0.001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1200.50, order.Items[0].UnitPrice)
}

func TestPlaceOrderRejectsBadInput(t *testing.T) {
	svc, products, _ := newTestOrderService()
	unpublished := seedProduct(t, products, 10, false, true)
	available := seedProduct(t, products, 10, true, true)

	cases := map[string][]OrderItemInput{
		"no items":            {},
		"zero quantity":       {{ProductID: available, Quantity: 0}},
		"unknown product":     {{ProductID: "no-such-product", Quantity: 1}},
		"unpublished product": {{ProductID: unpublished, Quantity: 1}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), "user-1", items)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}
}

func TestGetOrderOwnership(t *testing.T) {
	svc, products, _ := newTestOrderService()
	product := seedProduct(t, products, 10, true, true)

	order, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemInput{{ProductID: product, Quantity: 1}})
	require.NoError(t, err)

	owner := &domain.User{ID: "user-1"}
	stranger := &domain.User{ID: "user-2"}
	admin := &domain.User{ID: "admin-1", IsAdmin: true}

	got, err := svc.GetOrder(context.Background(), owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(context.Background(), stranger, order.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	_, err = svc.GetOrder(context.Background(), admin, order.ID)
	assert.NoError(t, err)
}

func TestListOrdersScopesToCaller(t *testing.T) {
	svc, products, _ := newTestOrderService()
	product := seedProduct(t, products, 10, true, true)

	_, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemInput{{ProductID: product, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), "user-2", []OrderItemInput{{ProductID: product, Quantity: 1}})
	require.NoError(t, err)

	own, err := svc.ListOrders(context.Background(), &domain.User{ID: "user-1"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := svc.ListOrders(context.Background(), &domain.User{ID: "admin-1", IsAdmin: true}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	svc, products, _ := newTestOrderService()
	product := seedProduct(t, products, 10, true, true)

	order, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemInput{{ProductID: product, Quantity: 1}})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, updated.Status)

	// skipping straight to delivered is rejected
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)

	// delivered is terminal
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	require.Error(t, err)
}
