package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// ProductFilter captures catalog search parameters.
type ProductFilter struct {
	Published  *bool
	InStock    *bool
	BrandID    *string
	CategoryID *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (title, description, price, quantity, published, in_stock, brand_id, category_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.Title,
		product.Description,
		product.Price,
		product.Quantity,
		product.Published,
		product.InStock,
		product.BrandID,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET title=$1, description=$2, price=$3, quantity=$4,
            published=$5, in_stock=$6, brand_id=$7, category_id=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		product.Title,
		product.Description,
		product.Price,
		product.Quantity,
		product.Published,
		product.InStock,
		product.BrandID,
		product.CategoryID,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
        SELECT id, title, description, price, quantity, published, in_stock,
               brand_id, category_id, created_at, updated_at
        FROM products WHERE id=$1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.Published,
		&product.InStock,
		&product.BrandID,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Published != nil {
		addCondition("published=$%d", *filter.Published)
	}
	if filter.InStock != nil {
		addCondition("in_stock=$%d", *filter.InStock)
	}
	if filter.BrandID != nil {
		addCondition("brand_id=$%d", *filter.BrandID)
	}
	if filter.CategoryID != nil {
		addCondition("category_id=$%d", *filter.CategoryID)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		args = append(args, *filter.SearchTerm)
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE '%%'||$%d||'%%' OR description ILIKE '%%'||$%d||'%%')", idx, idx))
	}

	query := `
        SELECT id, title, description, price, quantity, published, in_stock,
               brand_id, category_id, created_at, updated_at
        FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.Quantity,
			&product.Published,
			&product.InStock,
			&product.BrandID,
			&product.CategoryID,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
