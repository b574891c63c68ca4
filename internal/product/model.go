package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	Category    *string   `json:"category" db:"category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Filter - параметры выборки каталога. Границы Limit (1..MaxLimit) проверяет сервис.
type Filter struct {
	Skip     int
	Limit    int
	Category *string
}
