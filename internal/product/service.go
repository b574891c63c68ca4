package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/events"
)

type Service interface {
	ListProducts(ctx context.Context, filter Filter) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	// Seed заполняет пустой каталог образцами. force добавляет их в любом случае.
	Seed(ctx context.Context, force bool) (int, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{repo: repo, publisher: publisher}
}

func (s *service) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	if filter.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must be non-negative", ErrInvalidInput)
	}
	if filter.Limit < 1 || filter.Limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products in repository")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Int64("product_id", id).Msg("service: product not found by id")
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to fetch product by id in repository")
		return nil, fmt.Errorf("service: failed to fetch product by id: %w", err)
	}

	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if p.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create product in repository")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	events.PublishBestEffort(ctx, s.publisher, "product:"+strconv.FormatInt(created.ID, 10), events.Event{
		Type:       events.TypeProductCreated,
		OccurredAt: time.Now().UTC(),
		Payload: events.ProductCreated{
			ProductID: created.ID,
			Name:      created.Name,
			Category:  created.Category,
			Price:     created.Price,
		},
	})

	log.Info().Int64("product_id", created.ID).Str("name", created.Name).Msg("service: product created")
	return created, nil
}

func (s *service) Seed(ctx context.Context, force bool) (int, error) {
	if !force {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("service: failed to check catalog: %w", err)
		}
		if count > 0 {
			log.Info().Int("existing", count).Msg("service: catalog already has products, skipping seed")
			return 0, nil
		}
	}

	inserted := 0
	for _, sample := range SampleProducts() {
		if _, err := s.CreateProduct(ctx, &sample); err != nil {
			return inserted, fmt.Errorf("service: failed to seed %q: %w", sample.Name, err)
		}
		inserted++
	}

	log.Info().Int("inserted", inserted).Msg("service: catalog seeded")
	return inserted, nil
}
