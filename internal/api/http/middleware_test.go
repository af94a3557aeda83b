package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/observability"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp() (*fiber.App, *observability.Metrics) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	return app, metrics
}

func TestErrorMiddlewareStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", apperrors.NewUnauthenticated("login first"), fiber.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", apperrors.NewForbidden("admins only"), fiber.StatusForbidden, "FORBIDDEN"},
		{"not found", apperrors.NewNotFound("article", nil), fiber.StatusNotFound, "NOT_FOUND"},
		{"validation", apperrors.NewValidationError("bad input", map[string]any{"field": "title"}), fiber.StatusBadRequest, "VALIDATION_FAILED"},
		{"conflict", apperrors.NewConflict("email already in use", nil), fiber.StatusConflict, "CONFLICT"},
		{"store unavailable", apperrors.NewStoreUnavailable("session store unavailable", nil), fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"upstream unavailable", apperrors.NewUpstreamUnavailable("upstream service unavailable", nil), fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"internal", apperrors.NewInternalError(nil), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp()
			app.Get("/boom", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var envelope errorEnvelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.Equal(t, tt.code, envelope.Error.Code)
			assert.NotEmpty(t, envelope.Error.Message)
		})
	}
}

func TestErrorMiddlewareIncludesDetails(t *testing.T) {
	app, _ := newTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad input", map[string]any{"field": "title"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)

	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "title", envelope.Error.Details["field"])
}

func TestErrorMiddlewareConvertsFiberErrors(t *testing.T) {
	app, _ := newTestApp()
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "REQUEST_FAILED", envelope.Error.Code)
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app, _ := newTestApp()
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	app, metrics := newTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("article", nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	requests, errs := metrics.Snapshot()
	assert.Equal(t, int64(1), requests["/boom|GET|404"], "the logged status is the written one, not the pre-error 200")
	assert.Equal(t, int64(1), errs["/boom|GET|NOT_FOUND"])
}

// ownershipSpy records the context it is resolved with.
type ownershipSpy struct {
	sawDeadline bool
}

func (o *ownershipSpy) AuthorID(ctx context.Context, _ string) (string, error) {
	_, o.sawDeadline = ctx.Deadline()
	return "someone-else", nil
}

func TestRequireEditOwnershipSeesRequestContext(t *testing.T) {
	app, _ := newTestApp()
	tokens := auth.NewTokenManager("secret", time.Minute)
	ownership := &ownershipSpy{}
	app.Put("/articles/:id", auth.NewMiddleware(tokens).Handle, auth.RequireEdit(ownership), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token, _, err := tokens.Issue(&domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleWriter})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/articles/a1", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.True(t, ownership.sawDeadline, "ownership lookup runs under the request deadline")
}
