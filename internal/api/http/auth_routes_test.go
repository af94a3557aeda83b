package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-platform/internal/api/http/handlers"
	"github.com/spec-kit/blog-platform/internal/auth"
)

func newAuthRoutesApp() *fiber.App {
	app, metrics := newTestApp()
	tokens := auth.NewTokenManager("secret", time.Minute)
	RegisterAuthRoutes(app, AuthRouteConfig{
		Health:     handlers.NewHealthHandler("auth-service", "test", metrics, nil),
		Middleware: auth.NewMiddleware(tokens),
	})
	return app
}

func TestAuthRoutesUnknownPathIsNotFound(t *testing.T) {
	app := newAuthRoutesApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/no-such-path", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "unmatched paths must not be swallowed by the admin guard")

	resp, err = app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRoutesAdminListStillGuarded(t *testing.T) {
	app := newAuthRoutesApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("PATCH", "/u1/role", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealthMetricsEndpoint(t *testing.T) {
	app := newAuthRoutesApp()

	_, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Service  string           `json:"service"`
		Requests map[string]int64 `json:"requests"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "auth-service", body.Service)
	assert.Equal(t, int64(1), body.Requests["/health/live|GET|200"])
}
