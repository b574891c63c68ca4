package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/product"
)

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=500"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
}

type ProductHandler struct {
	service  product.Service
	validate *validator.Validate
	// writeGuard оборачивает POST /products, например проверкой сессии
	writeGuard func(http.Handler) http.Handler
}

func NewProductHandler(service product.Service, writeGuard func(http.Handler) http.Handler) *ProductHandler {
	return &ProductHandler{
		service:    service,
		validate:   validator.New(),
		writeGuard: writeGuard,
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Route("/products", func(r chi.Router) {
		r.Get("/", h.handleListProducts)
		r.Get("/{id}", h.handleGetProduct)
		if h.writeGuard != nil {
			r.With(h.writeGuard).Post("/", h.handleCreateProduct)
		} else {
			r.Post("/", h.handleCreateProduct)
		}
	})
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := product.Filter{Skip: 0, Limit: product.DefaultLimit}

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid skip parameter")
			return
		}
		filter.Skip = skip
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		filter.Limit = limit
	}
	if category := query.Get("category"); category != "" {
		filter.Category = &category
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		var clientMessage string
		if errors.Is(err, product.ErrInvalidInput) {
			clientMessage = err.Error()
		} else {
			log.Error().Err(err).Msg("Failed to list products via service")
			clientMessage = "Failed to list products"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	productID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Warn().Err(err).Str("product_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	found, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		var clientMessage string
		if errors.Is(err, product.ErrNotFound) {
			clientMessage = "Product not found"
		} else {
			log.Error().Err(err).Msg("Failed to get product by id via service")
			clientMessage = "Failed to get product"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	domainProduct := product.Product{
		Name:        requestPayload.Name,
		Description: requestPayload.Description,
		Price:       *requestPayload.Price,
		ImageURL:    requestPayload.ImageURL,
		Category:    requestPayload.Category,
	}
	if requestPayload.Stock != nil {
		domainProduct.Stock = *requestPayload.Stock
	}

	created, err := h.service.CreateProduct(r.Context(), &domainProduct)
	if err != nil {
		var clientMessage string
		if errors.Is(err, product.ErrInvalidInput) {
			clientMessage = err.Error()
		} else {
			log.Error().Err(err).Msg("Failed to create product via service")
			clientMessage = "Failed to create product"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}
