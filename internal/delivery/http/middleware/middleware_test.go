package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill-gap/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(routes func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Use(ErrorHandler(nil))
	routes(app)
	return app
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &env))
	}
	return resp, env
}

func TestErrorHandler(t *testing.T) {
	app := newApp(func(app *fiber.App) {
		app.Get("/app", func(fiber.Ctx) error {
			return NewAppError(fiber.StatusUnprocessableEntity, "Missing columns", map[string]any{"missing": []string{"Role"}}, nil)
		})
		app.Get("/hidden", func(fiber.Ctx) error {
			return NewAppError(fiber.StatusServiceUnavailable, "redis exploded", nil, errors.New("dial"))
		})
		app.Get("/fiber", func(fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
		app.Get("/plain", func(fiber.Ctx) error { return errors.New("boom") })
		app.Get("/panic", func(fiber.Ctx) error { panic("bad") })
	})

	resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Missing columns", env.Message)
	assert.JSONEq(t, `{"missing":["Role"]}`, string(env.Data))

	resp, env = call(t, app, httptest.NewRequest(http.MethodGet, "/hidden", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, env.Message, "redis")

	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/fiber", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}

func TestAccessLog_KeepsIncomingRequestID(t *testing.T) {
	app := newApp(func(app *fiber.App) {
		app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "rid-1")

	resp, _ := call(t, app, req)
	assert.Equal(t, "rid-1", resp.Header.Get(HeaderRequestID))
}

func TestRequireAdmin(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour)
	app := newApp(func(app *fiber.App) {
		app.Put("/courses/:skill", RequireAdmin(svc), func(c fiber.Ctx) error {
			return c.SendString(AdminFromCtx(c))
		})
	})
	put := func(auth string) *http.Request {
		req := httptest.NewRequest(http.MethodPut, "/courses/Go", nil)
		if auth != "" {
			req.Header.Set(fiber.HeaderAuthorization, auth)
		}
		return req
	}

	resp, _ := call(t, app, put(""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))

	resp, _ = call(t, app, put("Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := call(t, app, put("Bearer nope"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", env.Message)

	viewer, _, err := svc.GenerateAccessToken("viewer", "viewer")
	require.NoError(t, err)
	resp, _ = call(t, app, put("Bearer "+viewer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	tok, _, err := svc.GenerateAccessToken("hr-admin", jwt.RoleAdmin)
	require.NoError(t, err)
	resp, err = app.Test(put("bearer " + tok))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hr-admin", string(body))
}

func TestBearerToken(t *testing.T) {
	for in, want := range map[string]string{
		"Bearer abc":    "abc",
		"  bearer  xyz": "xyz",
		"Bearer ":       "",
		"abc":           "",
	} {
		got, ok := bearerToken(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, want != "", ok, in)
	}
}
