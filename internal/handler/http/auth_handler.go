package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/auth"
	"github.com/vasiliy-maslov/honey-shop/internal/password"
	"github.com/vasiliy-maslov/honey-shop/internal/session"
	"github.com/vasiliy-maslov/honey-shop/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

type UserResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	IsActive bool    `json:"is_active"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		IsActive: u.IsActive,
	}
}

type AuthHandler struct {
	service  auth.Service
	cookies  *session.CookieAdapter
	validate *validator.Validate
}

func NewAuthHandler(service auth.Service, cookies *session.CookieAdapter) *AuthHandler {
	return &AuthHandler{
		service:  service,
		cookies:  cookies,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)
		r.Post("/logout", h.handleLogout)
		r.With(h.RequireUser).Get("/me", h.handleMe)
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, false) {
		return
	}

	loggedIn, token, err := h.service.Login(r.Context(), requestPayload.Email, requestPayload.Password)
	if err != nil {
		var clientMessage string
		if errors.Is(err, auth.ErrUnauthorized) {
			clientMessage = "Incorrect email or password"
		} else {
			log.Error().Err(err).Msg("Failed to log in via service")
			clientMessage = "Failed to log in"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	h.cookies.Attach(w, token)
	respondWithJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    toUserResponse(loggedIn),
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload RegisterRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, false) {
		return
	}

	created, token, err := h.service.Register(r.Context(), requestPayload.Email, requestPayload.Password, requestPayload.FullName)
	if err != nil {
		var clientMessage string
		switch {
		case errors.Is(err, auth.ErrConflict):
			clientMessage = "Email already registered"
		case errors.Is(err, password.ErrPasswordTooLong):
			clientMessage = "Password must be at most 72 bytes"
		default:
			log.Error().Err(err).Msg("Failed to register user via service")
			clientMessage = "Failed to register user"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	h.cookies.Attach(w, token)
	respondWithJSON(w, http.StatusCreated, AuthResponse{
		Message: "Registration successful",
		User:    toUserResponse(created),
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.cookies.Extract(r); ok {
		h.service.Logout(r.Context(), token)
	}

	h.cookies.Clear(w)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(current))
}

// RequireUser кладёт текущего пользователя в контекст или отвечает 401.
func (h *AuthHandler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := h.cookies.Extract(r)

		current, err := h.service.CurrentUser(r.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve current user")
			respondWithError(w, http.StatusInternalServerError, "Failed to resolve session")
			return
		}
		if current == nil {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), current)))
	})
}
