package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/events"
	"github.com/vasiliy-maslov/honey-shop/internal/session"
	"github.com/vasiliy-maslov/honey-shop/internal/token"
	"github.com/vasiliy-maslov/honey-shop/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("email already registered")
)

type Service interface {
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	Register(ctx context.Context, email, password string, fullName *string) (*user.User, string, error)
	Logout(ctx context.Context, tokenString string)
	// CurrentUser возвращает (nil, nil), если валидной сессии нет. Ошибка только инфраструктурная.
	CurrentUser(ctx context.Context, tokenString string) (*user.User, error)
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	CreateUser(ctx context.Context, email, rawPassword string, fullName *string) (*user.User, error)
}

type PasswordHasher interface {
	Hash(raw string) (string, error)
	Check(raw, hash string) bool
}

type TokenCodec interface {
	Encode(subject token.Subject, issuedAt time.Time) (string, *token.Claims, error)
	Decode(tokenString string) (*token.Claims, error)
}

type service struct {
	users     UserStore
	hasher    PasswordHasher
	codec     TokenCodec
	revoker   session.Revoker
	publisher events.Publisher
	now       func() time.Time
	dummyHash string
}

type Option func(*service)

func WithRevoker(r session.Revoker) Option {
	return func(s *service) { s.revoker = r }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(users UserStore, hasher PasswordHasher, codec TokenCodec, opts ...Option) Service {
	s := &service{
		users:     users,
		hasher:    hasher,
		codec:     codec,
		revoker:   session.NopRevoker{},
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Хеш для сравнения, когда email не найден: время ответа не выдаёт наличие аккаунта.
	dummy, err := hasher.Hash("honey-shop-dummy-password")
	if err != nil {
		log.Warn().Err(err).Msg("auth: failed to prepare dummy hash")
	}
	s.dummyHash = dummy

	return s
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	found, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.hasher.Check(password, s.dummyHash)
			log.Info().Msg("auth: login failed")
			return nil, "", ErrUnauthorized
		}
		return nil, "", fmt.Errorf("auth: failed to look up user: %w", err)
	}

	if !s.hasher.Check(password, found.PasswordHash) || !found.IsActive {
		log.Info().Int64("user_id", found.ID).Msg("auth: login failed")
		return nil, "", ErrUnauthorized
	}

	signed, err := s.issue(found)
	if err != nil {
		return nil, "", err
	}

	log.Info().Int64("user_id", found.ID).Msg("auth: user logged in")
	return found, signed, nil
}

func (s *service) Register(ctx context.Context, email, password string, fullName *string) (*user.User, string, error) {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", ErrConflict
	case !errors.Is(err, user.ErrNotFound):
		return nil, "", fmt.Errorf("auth: failed to check existing user: %w", err)
	}

	// Уникальность гарантирует ограничение в БД, проверка выше - только быстрый путь.
	created, err := s.users.CreateUser(ctx, email, password, fullName)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			log.Warn().Msg("auth: concurrent registration with the same email")
			return nil, "", ErrConflict
		}
		return nil, "", fmt.Errorf("auth: failed to create user: %w", err)
	}

	signed, err := s.issue(created)
	if err != nil {
		return nil, "", err
	}

	events.PublishBestEffort(ctx, s.publisher, userKey(created.ID), events.Event{
		Type:       events.TypeUserRegistered,
		OccurredAt: s.now().UTC(),
		Payload:    events.UserRegistered{UserID: created.ID, Email: created.Email},
	})

	log.Info().Int64("user_id", created.ID).Msg("auth: user registered")
	return created, signed, nil
}

func (s *service) Logout(ctx context.Context, tokenString string) {
	if tokenString == "" {
		return
	}

	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID()).Msg("auth: failed to revoke token on logout")
		return
	}

	log.Info().Int64("user_id", claims.UserID()).Msg("auth: user logged out")
}

func (s *service) CurrentUser(ctx context.Context, tokenString string) (*user.User, error) {
	if tokenString == "" {
		return nil, nil
	}

	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		log.Debug().Err(err).Msg("auth: session token rejected")
		return nil, nil
	}

	if claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth: failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, nil
		}
	}

	found, err := s.users.GetUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth: failed to load current user: %w", err)
	}

	if !found.IsActive {
		return nil, nil
	}

	return found, nil
}

func (s *service) issue(u *user.User) (string, error) {
	signed, _, err := s.codec.Encode(token.Subject{UserID: u.ID, Email: u.Email}, s.now())
	if err != nil {
		log.Error().Err(err).Int64("user_id", u.ID).Msg("auth: failed to issue token")
		return "", fmt.Errorf("auth: failed to issue token: %w", err)
	}
	return signed, nil
}

func userKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
