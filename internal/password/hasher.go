package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength - предел bcrypt, считается в байтах, а не в символах.
const MaxLength = 72

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxLength)
)

// Hasher хеширует и проверяет пароли через bcrypt.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyPassword
	}
	if len(raw) > MaxLength {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash password: %w", err)
	}
	return string(hash), nil
}

func (h *Hasher) Check(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
