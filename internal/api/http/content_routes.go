package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/http/handlers"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/cache"
)

// ContentRouteConfig bundles dependencies for the content service routes.
type ContentRouteConfig struct {
	Health     *handlers.HealthHandler
	Articles   *handlers.ArticlesHandler
	Comments   *handlers.CommentsHandler
	Middleware *auth.Middleware
	Ownership  *cache.ArticleCache
}

// RegisterContentRoutes wires the content service. Reads use the optional
// authenticator so public listing still works; every mutating route runs the
// verify → authorize pipeline in order.
func RegisterContentRoutes(app *fiber.App, cfg ContentRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api/content")

	api.Get("/", cfg.Middleware.HandleOptional, cfg.Articles.List)
	api.Get("/:id", cfg.Middleware.HandleOptional, cfg.Articles.Get)

	api.Post("/", cfg.Middleware.Handle, auth.RequireCreate(), cfg.Articles.Create)
	api.Put("/:id", cfg.Middleware.Handle, auth.RequireEdit(cfg.Ownership), cfg.Articles.Update)
	api.Delete("/:id", cfg.Middleware.Handle, auth.RequireAdmin(), cfg.Articles.Delete)

	api.Get("/:id/comments", cfg.Comments.List)
	api.Post("/:id/comments", cfg.Middleware.Handle, auth.RequireAuthenticated(), cfg.Comments.Create)

	dashboard := app.Group("/api/v1/content", cfg.Middleware.Handle, auth.RequireAdmin())
	dashboard.Get("/summary", cfg.Articles.Summary)
	dashboard.Get("/count-by-day", cfg.Articles.CountByDay)
	dashboard.Get("/count-by-author", cfg.Articles.CountByAuthor)
	dashboard.Get("/top-by-comments", cfg.Articles.TopByComments)
}
