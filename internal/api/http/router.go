package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Signup and login are the only
// account routes reachable without a bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/signup", cfg.Accounts.Signup)
	users.Post("/login", cfg.Accounts.Login)

	me := users.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("", cfg.Accounts.Me)
	me.Patch("", cfg.Accounts.ChangePassword)
}
