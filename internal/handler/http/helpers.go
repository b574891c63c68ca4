package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/auth"
	"github.com/vasiliy-maslov/honey-shop/internal/password"
	"github.com/vasiliy-maslov/honey-shop/internal/product"
	"github.com/vasiliy-maslov/honey-shop/internal/user"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError отправляет JSON ошибку
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, product.ErrInvalidInput), errors.Is(err, password.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, product.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("Field '%s' is required", fe.Field())
		case "email":
			msg = fmt.Sprintf("Field '%s' must be a valid email address", fe.Field())
		case "min":
			msg = fmt.Sprintf("Field '%s' must be at least %s characters long", fe.Field(), fe.Param())
		case "max":
			msg = fmt.Sprintf("Field '%s' must be at most %s characters long", fe.Field(), fe.Param())
		case "gte":
			msg = fmt.Sprintf("Field '%s' must be greater than or equal to %s", fe.Field(), fe.Param())
		default:
			msg = fmt.Sprintf("Field '%s' is invalid", fe.Field())
		}
		messages = append(messages, msg)
	}
	return "Validation failed: " + strings.Join(messages, "; ")
}

// decodeAndValidate пишет ответ 400/500 сам и возвращает false, если тело не подходит.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any, strict bool) bool {
	decoder := json.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(dst); err != nil {
		log.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, formatValidationErrors(validationErrors))
		} else {
			log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}

	return true
}
