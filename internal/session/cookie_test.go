package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/honey-shop/internal/config"
)

func testCookieConfig() config.CookieConfig {
	return config.CookieConfig{
		Name:     "honey_session",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "strict",
		Domain:   "shop.example",
	}
}

func TestCookieAdapter_Attach(t *testing.T) {
	adapter := NewCookieAdapter(testCookieConfig(), 30*24*time.Hour)

	rr := httptest.NewRecorder()
	adapter.Attach(rr, "signed-token")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, "honey_session", c.Name)
	assert.Equal(t, "signed-token", c.Value)
	assert.Equal(t, 2592000, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "shop.example", c.Domain)
	assert.Equal(t, "/", c.Path)
}

func TestCookieAdapter_LocalhostDomainOmitted(t *testing.T) {
	cfg := testCookieConfig()
	cfg.Domain = "localhost"
	adapter := NewCookieAdapter(cfg, time.Hour)

	rr := httptest.NewRecorder()
	adapter.Attach(rr, "signed-token")

	header := rr.Header().Get("Set-Cookie")
	assert.NotContains(t, header, "Domain=")
	assert.Contains(t, header, "Max-Age=3600")
}

func TestCookieAdapter_Extract(t *testing.T) {
	adapter := NewCookieAdapter(testCookieConfig(), time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := adapter.Extract(req)
	assert.False(t, ok, "absent cookie")

	req.AddCookie(&http.Cookie{Name: "other", Value: "x"})
	_, ok = adapter.Extract(req)
	assert.False(t, ok, "foreign cookie")

	req.AddCookie(&http.Cookie{Name: "honey_session", Value: "signed-token"})
	value, ok := adapter.Extract(req)
	assert.True(t, ok)
	assert.Equal(t, "signed-token", value)
}

func TestCookieAdapter_Clear(t *testing.T) {
	adapter := NewCookieAdapter(testCookieConfig(), time.Hour)

	rr := httptest.NewRecorder()
	adapter.Clear(rr)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, "honey_session", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Equal(t, "shop.example", c.Domain)
	assert.Equal(t, "/", c.Path)
}
