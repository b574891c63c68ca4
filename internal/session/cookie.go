package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/vasiliy-maslov/honey-shop/internal/config"
)

const loopbackDomain = "localhost"

// CookieAdapter переносит сессионный токен в cookie и обратно.
type CookieAdapter struct {
	name     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
	domain   string
	maxAge   int
}

func NewCookieAdapter(cfg config.CookieConfig, ttl time.Duration) *CookieAdapter {
	domain := cfg.Domain
	// браузеры отбрасывают cookie с Domain=localhost
	if strings.EqualFold(domain, loopbackDomain) {
		domain = ""
	}

	return &CookieAdapter{
		name:     cfg.Name,
		secure:   cfg.Secure,
		httpOnly: cfg.HTTPOnly,
		sameSite: cfg.SameSiteMode(),
		domain:   domain,
		maxAge:   int(ttl / time.Second),
	}
}

func (a *CookieAdapter) Name() string {
	return a.name
}

func (a *CookieAdapter) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, a.cookie(token, a.maxAge))
}

// Extract возвращает значение cookie. Отсутствие cookie не является ошибкой.
func (a *CookieAdapter) Extract(r *http.Request) (string, bool) {
	c, err := r.Cookie(a.name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (a *CookieAdapter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie("", -1))
}

func (a *CookieAdapter) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     a.name,
		Value:    value,
		Path:     "/",
		Domain:   a.domain,
		MaxAge:   maxAge,
		Secure:   a.secure,
		HttpOnly: a.httpOnly,
		SameSite: a.sameSite,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
