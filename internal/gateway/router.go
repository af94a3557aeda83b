// Package gateway routes inbound requests by path prefix to the correct
// backend service, rewriting paths and propagating credentials untouched.
package gateway

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/config"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// RewriteRule transforms the inbound path into the upstream path.
type RewriteRule func(path string) string

// StripPrefix removes the routed prefix.
func StripPrefix(prefix string) RewriteRule {
	return func(path string) string {
		rewritten := strings.TrimPrefix(path, prefix)
		if rewritten == "" {
			return "/"
		}
		return rewritten
	}
}

// ReplacePrefix substitutes the routed prefix with another.
func ReplacePrefix(prefix, replacement string) RewriteRule {
	return func(path string) string {
		return replacement + strings.TrimPrefix(path, prefix)
	}
}

// PassThrough forwards the path unchanged.
func PassThrough() RewriteRule {
	return func(path string) string { return path }
}

// Route binds one path prefix to an upstream target.
type Route struct {
	Prefix  string
	Target  string
	Rewrite RewriteRule
}

// Router matches inbound paths against the routing table, most specific
// prefix first.
type Router struct {
	routes []Route
	logger *zap.Logger
}

// NewRouter builds the platform routing table. The uploads prefix must rank
// above the generic content prefix or the generic rule would shadow it;
// sorting by prefix length guarantees the order.
func NewRouter(cfg config.GatewayConfig, logger *zap.Logger) *Router {
	routes := []Route{
		{Prefix: "/auth", Target: cfg.AuthServiceURL, Rewrite: StripPrefix("/auth")},
		{Prefix: "/users", Target: cfg.AuthServiceURL, Rewrite: StripPrefix("/users")},
		{Prefix: "/api/v1/users", Target: cfg.AuthServiceURL, Rewrite: PassThrough()},
		{Prefix: "/content/uploads", Target: cfg.ContentServiceURL, Rewrite: StripPrefix("/content")},
		{Prefix: "/content", Target: cfg.ContentServiceURL, Rewrite: ReplacePrefix("/content", "/api/content")},
		{Prefix: "/api/v1/content", Target: cfg.ContentServiceURL, Rewrite: PassThrough()},
	}
	return NewRouterWithRoutes(routes, logger)
}

// NewRouterWithRoutes builds a router over an explicit table.
func NewRouterWithRoutes(routes []Route, logger *zap.Logger) *Router {
	sorted := append([]Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Router{routes: sorted, logger: logger}
}

// Match selects the longest matching prefix for the path.
func (r *Router) Match(path string) (*Route, bool) {
	for i := range r.routes {
		route := &r.routes[i]
		if !strings.HasPrefix(path, route.Prefix) {
			continue
		}
		rest := path[len(route.Prefix):]
		if rest == "" || rest[0] == '/' {
			return route, true
		}
	}
	return nil, false
}

// Handler proxies matched requests to their upstream. Fiber's proxy forwards
// the request headers (Cookie, Authorization included) and copies response
// headers (Set-Cookie included) back to the client.
func (r *Router) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, ok := r.Match(c.Path())
		if !ok {
			return apperrors.NewNotFound("route", map[string]any{"path": c.Path()})
		}

		rewritten := route.Rewrite(c.Path())
		target := route.Target + rewritten
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}

		r.logger.Debug("proxying",
			zap.String("path", c.Path()),
			zap.String("prefix", route.Prefix),
			zap.String("target", target),
		)

		if err := proxy.Do(c, target); err != nil {
			r.logger.Error("upstream request failed", zap.String("target", target), zap.Error(err))
			return apperrors.NewUpstreamUnavailable("upstream service unavailable", err)
		}
		// The upstream response travels back verbatim; only hop identity is
		// removed.
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
