package middleware

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dbconsole/auth"
	"dbconsole/models"
	"dbconsole/session"
	"dbconsole/storage"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if appErr, ok := utils.AsAppError(err); ok {
				code = appErr.Code
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).SendString(err.Error())
		},
	})
}

func cookieValue(resp *http.Response, name string) string {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func TestCSRFIssuesTokenOnGet(t *testing.T) {
	app := newTestApp()
	app.Use(CSRFProtection())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(CSRFToken(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	token := cookieValue(resp, "csrf_token")
	require.NotEmpty(t, token)
	assert.Equal(t, token, string(body))
}

func TestCSRFValidatesUnsafeMethods(t *testing.T) {
	app := newTestApp()
	app.Use(CSRFProtection())
	app.Post("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	post := func(cookie, header, field string) int {
		form := url.Values{}
		if field != "" {
			form.Set("_csrf", field)
		}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "csrf_token", Value: cookie})
		}
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusForbidden, post("", "", ""))
	assert.Equal(t, fiber.StatusForbidden, post("abc", "", ""))
	assert.Equal(t, fiber.StatusForbidden, post("abc", "xyz", ""))
	assert.Equal(t, fiber.StatusOK, post("abc", "abc", ""))
	assert.Equal(t, fiber.StatusOK, post("abc", "", "abc"))
}

func TestCSRFSkipper(t *testing.T) {
	cfg := DefaultCSRFConfig()
	cfg.Skipper = HasBearer
	app := newTestApp()
	app.Use(CSRFProtection(cfg))
	app.Post("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLocaleMiddleware(t *testing.T) {
	app := newTestApp()
	app.Use(LocaleMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(Lang(c)) })

	tests := []struct {
		name   string
		query  string
		cookie string
		accept string
		want   string
	}{
		{"default", "", "", "", "en"},
		{"accept header", "", "", "ja-JP,ja;q=0.9", "ja"},
		{"unsupported header", "", "", "fr-FR", "en"},
		{"cookie beats header", "", "en", "ja", "en"},
		{"query beats cookie", "?lang=ja", "en", "", "ja"},
		{"unsupported query ignored", "?lang=de", "ja", "", "ja"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestRateLimiter(t *testing.T) {
	app := newTestApp()
	app.Use(RateLimiter(2, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimiterDisabled(t *testing.T) {
	app := newTestApp()
	app.Use(RateLimiter(0, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func newAuthenticator(t *testing.T) session.Authenticator {
	t.Helper()
	a, err := session.NewStaticAuthenticator(session.DemoAccounts, session.DemoPassword, bcrypt.MinCost)
	require.NoError(t, err)
	return a
}

func TestSessionScopePersistsAcrossRequests(t *testing.T) {
	store := NewSessionStore(nil, time.Hour, false)
	app := newTestApp()
	app.Use(SessionScope(store, newAuthenticator(t)))
	app.Post("/login", func(c *fiber.Ctx) error {
		ok, err := MustHolder(c).Login(c.UserContext(), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			return err
		}
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		return MustHolder(c).Logout(c.UserContext())
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(MustHolder(c).State())
	})

	form := url.Values{"email": {"admin@example.com"}, "password": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	sid := cookieValue(resp, SessionCookie)
	require.NotEmpty(t, sid)

	whoami := func() string {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	assert.Contains(t, whoami(), `"role":"admin"`)
	assert.Contains(t, whoami(), `"isAuthenticated":true`)

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Contains(t, whoami(), `"isAuthenticated":false`)
}

func TestSessionScopeRecoversFromUnreadableSession(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStorage(dir)
	require.NoError(t, err)
	stale := filepath.Join(dir, hex.EncodeToString([]byte("victimid"))+".json")
	require.NoError(t, os.WriteFile(stale, []byte("{garbage"), 0600))

	store := NewSessionStore(fs, time.Hour, false)
	app := newTestApp()
	app.Use(SessionScope(store, newAuthenticator(t)))
	app.Post("/login", func(c *fiber.Ctx) error {
		ok, err := MustHolder(c).Login(c.UserContext(), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			return err
		}
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(MustHolder(c).State())
	})

	form := url.Values{"email": {"admin@example.com"}, "password": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "victimid"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"isAuthenticated":true`)
	assert.NotEmpty(t, cookieValue(resp, SessionCookie))
}

func TestSessionStorageAdapter(t *testing.T) {
	store := NewSessionStore(nil, time.Hour, false)
	app := newTestApp()
	app.Get("/", func(c *fiber.Ctx) error {
		s := NewSessionStorage(store, c)
		ctx := context.Background()

		if _, err := s.Get(ctx, "k"); err != session.ErrNotFound {
			return c.Status(500).SendString("expected not found")
		}
		if err := s.Set(ctx, "k", []byte("v")); err != nil {
			return err
		}
		v, err := s.Get(ctx, "k")
		if err != nil || string(v) != "v" {
			return c.Status(500).SendString("round trip failed")
		}
		if err := s.Delete(ctx, "k"); err != nil {
			return err
		}
		if _, err := s.Get(ctx, "k"); err != session.ErrNotFound {
			return c.Status(500).SendString("expected deletion")
		}
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
}

func TestMustHolderPanicsOutsideScope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Panics(t, func() { MustHolder(c) })
		_, ok := Holder(c)
		assert.False(t, ok)
		return c.SendString("ok")
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
}

func TestBearerAuthAndRoles(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	app := newTestApp()
	app.Use(BearerAuth(issuer))
	app.Get("/api/any", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString(CurrentState(c).User.Email)
	})
	app.Get("/api/admin", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("admin")
	})
	app.Get("/page", RequireAuth(), func(c *fiber.Ctx) error { return c.SendString("page") })

	userToken, _, err := issuer.Issue(&models.User{ID: "2", Email: "user@example.com", Name: "Standard User", Role: models.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := issuer.Issue(&models.User{ID: "1", Email: "admin@example.com", Name: "Admin User", Role: models.RoleAdmin})
	require.NoError(t, err)

	do := func(path, authz string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, fiber.StatusUnauthorized, do("/api/any", "").StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, do("/api/any", "Bearer nope").StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, do("/api/any", "Basic abc").StatusCode)

	resp := do("/api/any", "Bearer "+userToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "user@example.com", string(body))

	assert.Equal(t, fiber.StatusForbidden, do("/api/admin", "Bearer "+userToken).StatusCode)
	assert.Equal(t, fiber.StatusOK, do("/api/admin", "Bearer "+adminToken).StatusCode)

	page := do("/page", "")
	assert.Equal(t, fiber.StatusFound, page.StatusCode)
	assert.Equal(t, "/login", page.Header.Get("Location"))
}
