// Package ui отдаёт серверные HTML-формы входа и регистрации.
package ui

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/auth"
	passwordpkg "github.com/vasiliy-maslov/honey-shop/internal/password"
	"github.com/vasiliy-maslov/honey-shop/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	msgInvalidCredentials = "Invalid email or password"
	msgPasswordsMismatch  = "Passwords do not match"
	msgEmailRegistered    = "Email already registered"
	msgMissingFields      = "Email and password are required"
	msgInvalidEmail       = "Please enter a valid email address"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgInternal           = "Something went wrong, please try again"
)

type pageData struct {
	AppName  string
	Title    string
	Error    string
	Email    string
	FullName string
}

type Handler struct {
	service     auth.Service
	cookies     *session.CookieAdapter
	appName     string
	frontendURL string
	validate    *validator.Validate
	login       *template.Template
	register    *template.Template
}

func NewHandler(service auth.Service, cookies *session.CookieAdapter, appName, frontendURL string) *Handler {
	return &Handler{
		service:     service,
		cookies:     cookies,
		appName:     appName,
		frontendURL: frontendURL,
		validate:    validator.New(),
		login:       template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/login.html")),
		register:    template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/register.html")),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/ui/auth", func(r chi.Router) {
		r.Get("/login", h.handleLoginPage)
		r.Post("/login", h.handleLoginSubmit)
		r.Get("/register", h.handleRegisterPage)
		r.Post("/register", h.handleRegisterSubmit)
		r.Get("/logout", h.handleLogout)
	})
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, h.login, pageData{Title: "Sign in"})
}

func (h *Handler) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, h.login, pageData{Title: "Sign in", Error: msgMissingFields})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	data := pageData{Title: "Sign in", Email: email}

	if email == "" || password == "" {
		data.Error = msgMissingFields
		h.render(w, h.login, data)
		return
	}

	_, token, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			data.Error = msgInvalidCredentials
		} else {
			log.Error().Err(err).Msg("ui: login failed")
			data.Error = msgInternal
		}
		h.render(w, h.login, data)
		return
	}

	h.cookies.Attach(w, token)
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, h.register, pageData{Title: "Register"})
}

func (h *Handler) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, h.register, pageData{Title: "Register", Error: msgMissingFields})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	confirm := r.PostForm.Get("confirm_password")
	fullName := strings.TrimSpace(r.PostForm.Get("full_name"))
	data := pageData{Title: "Register", Email: email, FullName: fullName}

	switch {
	case email == "" || password == "":
		data.Error = msgMissingFields
	case h.validate.Var(email, "email") != nil:
		data.Error = msgInvalidEmail
	case password != confirm:
		data.Error = msgPasswordsMismatch
	case len(password) > passwordpkg.MaxLength:
		data.Error = msgPasswordTooLong
	}
	if data.Error != "" {
		h.render(w, h.register, data)
		return
	}

	var namePtr *string
	if fullName != "" {
		namePtr = &fullName
	}

	_, token, err := h.service.Register(r.Context(), email, password, namePtr)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			data.Error = msgEmailRegistered
		case errors.Is(err, passwordpkg.ErrPasswordTooLong):
			data.Error = msgPasswordTooLong
		default:
			log.Error().Err(err).Msg("ui: registration failed")
			data.Error = msgInternal
		}
		h.render(w, h.register, data)
		return
	}

	h.cookies.Attach(w, token)
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.cookies.Extract(r); ok {
		h.service.Logout(r.Context(), token)
	}
	h.cookies.Clear(w)
	http.Redirect(w, r, "/ui/auth/login", http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	data.AppName = h.appName

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Msg("ui: failed to render template")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
