// Package token выпускает и проверяет подписанные сессионные токены (JWT HS256).
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken оборачивает любую причину отказа. Вызывающему коду достаточно errors.Is
// с ним, причины нужны только для логов.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID разбирает sub. Decode уже гарантирует, что он числовой.
func (c *Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

type Subject struct {
	UserID int64
	Email  string
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Codec)

// WithClock подменяет часы, используется в тестах.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(secret []byte, ttl time.Duration, opts ...Option) *Codec {
	c := &Codec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) Encode(subject Subject, issuedAt time.Time) (string, *Claims, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token id: %w", err)
	}

	claims := &Claims{
		Email: subject.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
			ID:        jti.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claims, nil
}

// Decode возвращает claims, только если подпись верна и now < exp.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	// jwt считает токен валидным и в саму секунду exp
	if !c.now().Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
	}

	if _, err := strconv.ParseInt(claims.Subject, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %w: subject is not a user id", ErrInvalidToken, ErrTokenMalformed)
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenSignature)
	default:
		return fmt.Errorf("%w: %w: %v", ErrInvalidToken, ErrTokenMalformed, err)
	}
}
