package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

type memoryBrandRepo struct {
	mu     sync.Mutex
	seq    int
	brands map[string]*domain.Brand
}

func newMemoryBrandRepo() *memoryBrandRepo {
	return &memoryBrandRepo{brands: make(map[string]*domain.Brand)}
}

func (m *memoryBrandRepo) Create(_ context.Context, brand *domain.Brand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.brands {
		if existing.Name == brand.Name {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	m.seq++
	brand.ID = fmt.Sprintf("brand-%d", m.seq)
	copied := *brand
	m.brands[brand.ID] = &copied
	return nil
}

func (m *memoryBrandRepo) Update(_ context.Context, brand *domain.Brand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.brands[brand.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *brand
	m.brands[brand.ID] = &copied
	return nil
}

func (m *memoryBrandRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.brands[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.brands, id)
	return nil
}

func (m *memoryBrandRepo) GetByID(_ context.Context, id string) (*domain.Brand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	brand, ok := m.brands[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *brand
	return &copied, nil
}

func (m *memoryBrandRepo) List(_ context.Context) ([]domain.Brand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Brand
	for _, brand := range m.brands {
		out = append(out, *brand)
	}
	return out, nil
}

type memoryCategoryRepo struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*domain.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (m *memoryCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	m.seq++
	category.ID = fmt.Sprintf("category-%d", m.seq)
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memoryCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memoryCategoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.categories, id)
	return nil
}

func (m *memoryCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (m *memoryCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, category := range m.categories {
		out = append(out, *category)
	}
	return out, nil
}

func newTestCatalogService() *CatalogService {
	return NewCatalogService(newMemoryProductRepo(), newMemoryBrandRepo(), newMemoryCategoryRepo())
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestCatalogService()

	badBrand := "no-such-brand"
	cases := map[string]struct {
		input ProductInput
		field string
	}{
		"missing title":  {ProductInput{Title: "  ", Price: 10}, "title"},
		"negative price": {ProductInput{Title: "Laptop", Price: -1}, "price"},
		"unknown brand":  {ProductInput{Title: "Laptop", Price: 10, BrandID: &badBrand}, "brand_id"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Contains(t, domainErr.Details, tc.field)
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	svc := newTestCatalogService()

	brand, err := svc.CreateBrand(context.Background(), "Dell")
	require.NoError(t, err)
	category, err := svc.CreateCategory(context.Background(), "Laptops")
	require.NoError(t, err)

	product, err := svc.CreateProduct(context.Background(), ProductInput{
		Title:      "XPS 15",
		Price:      1899.99,
		Quantity:   5,
		Published:  true,
		InStock:    true,
		BrandID:    &brand.ID,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)

	updated, err := svc.UpdateProduct(context.Background(), product.ID, ProductInput{
		Title:     "XPS 15 (2024)",
		Price:     1799.99,
		Quantity:  3,
		Published: true,
		InStock:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "XPS 15 (2024)", updated.Title)
	assert.Nil(t, updated.BrandID)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))
	_, err = svc.GetProduct(context.Background(), product.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateBrandDuplicateName(t *testing.T) {
	svc := newTestCatalogService()

	_, err := svc.CreateBrand(context.Background(), "Dell")
	require.NoError(t, err)

	_, err = svc.CreateBrand(context.Background(), "Dell")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	svc := newTestCatalogService()

	_, err := svc.CreateCategory(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}
