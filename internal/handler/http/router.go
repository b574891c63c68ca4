package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/vasiliy-maslov/honey-shop/internal/auth"
	"github.com/vasiliy-maslov/honey-shop/internal/config"
	"github.com/vasiliy-maslov/honey-shop/internal/handler/ui"
	"github.com/vasiliy-maslov/honey-shop/internal/product"
	"github.com/vasiliy-maslov/honey-shop/internal/session"
)

type RouterDeps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Auth     auth.Service
	Products product.Service
	Cookies  *session.CookieAdapter
}

func NewRouter(deps RouterDeps) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(hlog.NewHandler(deps.Logger))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.App.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := NewAuthHandler(deps.Auth, deps.Cookies)

	var writeGuard func(http.Handler) http.Handler
	if deps.Config.App.CatalogWriteRequiresAuth {
		writeGuard = authHandler.RequireUser
	}
	productHandler := NewProductHandler(deps.Products, writeGuard)

	NewSystemHandler(deps.Config.App.Environment).RegisterRoutes(router)

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
	})

	ui.NewHandler(deps.Auth, deps.Cookies, deps.Config.App.Name, deps.Config.App.FrontendURL).RegisterRoutes(router)

	return router
}
