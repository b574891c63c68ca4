package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "1.0.0"

type WelcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Health  string `json:"health"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

type SystemHandler struct {
	environment string
}

func NewSystemHandler(environment string) *SystemHandler {
	return &SystemHandler{environment: environment}
}

func (h *SystemHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.handleRoot)
	router.Get("/health", h.handleHealth)
}

func (h *SystemHandler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, WelcomeResponse{
		Message: "Welcome to Honey Industry API",
		Version: apiVersion,
		Health:  "/health",
	})
}

func (h *SystemHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Environment: h.environment,
	})
}
