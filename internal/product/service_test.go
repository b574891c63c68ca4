package product

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/honey-shop/internal/events"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter Filter) ([]Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *Product) (*Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type countingPublisher struct {
	types []string
}

func (p *countingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}

func (p *countingPublisher) Close() error { return nil }

func TestService_ListProducts_Validation(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo, nil)

	tests := []struct {
		name   string
		filter Filter
	}{
		{name: "negative_skip", filter: Filter{Skip: -1, Limit: 10}},
		{name: "zero_limit", filter: Filter{Skip: 0, Limit: 0}},
		{name: "limit_over_max", filter: Filter{Skip: 0, Limit: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListProducts(context.Background(), tt.filter)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestService_ListProducts(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo, nil)
	filter := Filter{Skip: 0, Limit: 2}
	want := []Product{{ID: 1, Name: "Wildflower Honey"}, {ID: 2, Name: "Manuka Honey"}}

	repo.On("List", mock.Anything, filter).Return(want, nil).Once()

	got, err := svc.ListProducts(context.Background(), filter)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, got))
	repo.AssertExpectations(t)
}

func TestService_GetProduct(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo, nil)
	dbErr := errors.New("db down")

	repo.On("GetByID", mock.Anything, int64(1)).Return(&Product{ID: 1}, nil).Once()
	repo.On("GetByID", mock.Anything, int64(2)).Return(nil, ErrNotFound).Once()
	repo.On("GetByID", mock.Anything, int64(3)).Return(nil, dbErr).Once()

	p, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = svc.GetProduct(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetProduct(context.Background(), 3)
	assert.ErrorIs(t, err, dbErr)
	repo.AssertExpectations(t)
}

func TestService_CreateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	publisher := &countingPublisher{}
	svc := NewService(repo, publisher)

	input := &Product{Name: "Acacia Honey", Price: 15.99}
	repo.On("Create", mock.Anything, input).Return(&Product{ID: 3, Name: "Acacia Honey", Price: 15.99}, nil).Once()

	created, err := svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, []string{events.TypeProductCreated}, publisher.types)
	repo.AssertExpectations(t)
}

func TestService_CreateProduct_Invalid(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewService(repo, nil)

	for name, p := range map[string]*Product{
		"blank_name":     {Name: "  ", Price: 1},
		"negative_price": {Name: "Honey", Price: -0.01},
		"negative_stock": {Name: "Honey", Price: 1, Stock: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), p)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Seed(t *testing.T) {
	t.Run("empty_catalog", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewService(repo, nil)

		repo.On("Count", mock.Anything).Return(0, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).
			Return(&Product{ID: 1}, nil).Times(len(SampleProducts()))

		inserted, err := svc.Seed(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, 8, inserted)
		repo.AssertExpectations(t)
	})

	t.Run("non_empty_catalog", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewService(repo, nil)

		repo.On("Count", mock.Anything).Return(3, nil).Once()

		inserted, err := svc.Seed(context.Background(), false)
		require.NoError(t, err)
		assert.Zero(t, inserted)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("force", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewService(repo, nil)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).
			Return(&Product{ID: 1}, nil).Times(8)

		inserted, err := svc.Seed(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, 8, inserted)
		repo.AssertNotCalled(t, "Count", mock.Anything)
	})
}

func TestSampleProducts(t *testing.T) {
	products := SampleProducts()
	require.Len(t, products, 8)

	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.GreaterOrEqual(t, p.Stock, 0)
		require.NotNil(t, p.Category)
	}

	// копия, а не общий срез
	*products[0].Category = "changed"
	assert.Equal(t, "Raw Honey", *SampleProducts()[0].Category)
}
