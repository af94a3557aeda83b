package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/http/handlers"
	"github.com/spec-kit/blog-platform/internal/auth"
)

// AuthRouteConfig bundles dependencies for the auth service routes.
type AuthRouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Users      *handlers.UsersHandler
	Middleware *auth.Middleware
}

// RegisterAuthRoutes wires the auth service. The gateway strips the /auth and
// /users prefixes before forwarding, so routes are mounted at the root, while
// the dashboard routes keep their /api/v1 prefix end to end.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/refresh", cfg.Auth.Refresh)
	app.Post("/logout", cfg.Auth.Logout)

	app.Get("/me", cfg.Middleware.Handle, cfg.Users.Me)

	// Admin user management attaches its guard chain per route; a group with an
	// empty prefix would shadow every unmatched path with a 401.
	app.Get("/", cfg.Middleware.Handle, auth.RequireAdmin(), cfg.Users.List)
	app.Patch("/:id/role", cfg.Middleware.Handle, auth.RequireAdmin(), cfg.Users.UpdateRole)

	dashboard := app.Group("/api/v1/users", cfg.Middleware.Handle, auth.RequireAdmin())
	dashboard.Get("/summary", cfg.Users.Summary)
	dashboard.Get("/signups-by-day", cfg.Users.SignupsByDay)
	dashboard.Get("/by-role", cfg.Users.ByRole)
}
