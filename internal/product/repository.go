package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, stock, image_url, category, created_at`

func (r *repository) List(ctx context.Context, filter Filter) ([]Product, error) {
	products := []Product{}

	var err error
	if filter.Category != nil {
		query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id LIMIT $2 OFFSET $3`
		err = r.db.SelectContext(ctx, &products, query, *filter.Category, filter.Limit, filter.Skip)
	} else {
		query := `SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT $1 OFFSET $2`
		err = r.db.SelectContext(ctx, &products, query, filter.Limit, filter.Skip)
	}
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list products: %w", err)
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get product %d: %w", id, err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	var created Product

	query := `INSERT INTO products (name, description, price, stock, image_url, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	err := r.db.QueryRowxContext(ctx, query, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.Category).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert product: %w", err)
	}

	return &created, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("repository: failed to count products: %w", err)
	}
	return count, nil
}
