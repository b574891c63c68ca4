package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateUser(ctx context.Context, email, rawPassword string, fullName *string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type Hasher interface {
	Hash(raw string) (string, error)
}

type service struct {
	repo   Repository
	hasher Hasher
}

func NewService(repo Repository, hasher Hasher) Service {
	return &service{repo: repo, hasher: hasher}
}

func (s *service) CreateUser(ctx context.Context, email, rawPassword string, fullName *string) (*User, error) {
	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: internal error hashing password: %w", err)
	}

	created, err := s.repo.Create(ctx, &User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create user in repository")
		return nil, fmt.Errorf("service: failed to save user: %w", err)
	}

	log.Info().Int64("user_id", created.ID).Msg("service: user created")
	return created, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("user_id", id).Msg("service: failed to get user by id in repository")
		return nil, fmt.Errorf("service: failed to get user by id '%d': %w", id, err)
	}

	return found, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("service: failed to get user by email in repository")
		return nil, fmt.Errorf("service: failed to get user by email: %w", err)
	}

	return found, nil
}

func (s *service) SetActive(ctx context.Context, id int64, active bool) error {
	err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("user_id", id).Msg("service: failed to update user activity")
		return fmt.Errorf("service: failed to update user '%d': %w", id, err)
	}

	log.Info().Int64("user_id", id).Bool("is_active", active).Msg("service: user activity changed")
	return nil
}
