package product

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "description", "price", "stock", "image_url", "category", "created_at"}

func newMockRepository(t *testing.T) (sqlmock.Sqlmock, Repository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewRepository(sqlx.NewDb(db, "sqlmock"))
}

func TestRepository_List(t *testing.T) {
	mock, repo := newMockRepository(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products ORDER BY id LIMIT $1 OFFSET $2`)).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(1, "Wildflower Honey", "raw", 12.99, 50, nil, "Raw Honey", now).
			AddRow(2, "Manuka Honey", nil, 49.99, 25, "https://img", "Premium Honey", now))

	products, err := repo.List(context.Background(), Filter{Skip: 0, Limit: 2})
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ID)
	require.NotNil(t, products[0].Description)
	assert.Equal(t, "raw", *products[0].Description)
	assert.Nil(t, products[0].ImageURL)
	assert.Nil(t, products[1].Description)
	require.NotNil(t, products[1].ImageURL)
	assert.Equal(t, "https://img", *products[1].ImageURL)
	assert.Equal(t, 25, products[1].Stock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_ByCategory(t *testing.T) {
	mock, repo := newMockRepository(t)
	category := "Gift Sets"

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE category = $1 ORDER BY id LIMIT $2 OFFSET $3`)).
		WithArgs(category, 100, 8).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	products, err := repo.List(context.Background(), Filter{Skip: 8, Limit: 100, Category: &category})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	mock, repo := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(5, "Honeycomb", nil, 24.99, 15, nil, "Specialty", now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Honeycomb", p.Name)
	assert.InDelta(t, 24.99, p.Price, 0.0001)

	_, err = repo.GetByID(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	mock, repo := newMockRepository(t)
	now := time.Now().UTC()
	category := "Raw Honey"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (name, description, price, stock, image_url, category)`)).
		WithArgs("Acacia Honey", nil, 15.99, 0, nil, &category).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(9, "Acacia Honey", nil, 15.99, 0, nil, category, now))

	created, err := repo.Create(context.Background(), &Product{Name: "Acacia Honey", Price: 15.99, Category: &category})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, 0, created.Stock)
	require.NotNil(t, created.Category)
	assert.Equal(t, category, *created.Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	mock, repo := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
