package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/sakalaundry/laundry-api/internal/api/http/handlers"
	"github.com/sakalaundry/laundry-api/internal/auth"
	"github.com/sakalaundry/laundry-api/internal/observability"
	"github.com/sakalaundry/laundry-api/internal/realtime"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Orders         *handlers.OrdersHandler
	Admin          *handlers.AdminHandler
	Tickets        *handlers.TicketsHandler
	Realtime       *realtime.Handler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The admin websocket shares the same
// auth chain as the admin REST surface: the token is checked once, at
// handshake time, before the connection upgrade.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	requireAuth := cfg.AuthMiddleware.Handle
	requireAdmin := auth.RequireAdmin()

	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/profile", requireAuth, cfg.Auth.Profile)

	forgot := app.Group("/auth/forgot-password")
	forgot.Post("/request-otp", cfg.Auth.RequestOTP)
	forgot.Post("/reset", cfg.Auth.ResetPassword)

	orders := app.Group("/orders", requireAuth)
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/", cfg.Orders.ListOwn)
	orders.Delete("/:id", cfg.Orders.Cancel)

	admin := app.Group("/admin", requireAuth, requireAdmin)
	admin.Get("/orders", cfg.Admin.ListOrders)
	admin.Patch("/orders/:id/status", cfg.Admin.SetOrderStatus)
	admin.Delete("/orders/:id", cfg.Admin.DeleteOrder)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id/role", cfg.Admin.SetUserRole)
	admin.Get("/stats", cfg.Admin.Stats)

	tickets := app.Group("/api/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", requireAuth, requireAdmin, cfg.Tickets.List)
	tickets.Post("/:id/reply", requireAuth, requireAdmin, cfg.Tickets.Reply)
	tickets.Post("/:id/close", requireAuth, requireAdmin, cfg.Tickets.Close)
	tickets.Put("/:id", requireAuth, requireAdmin, cfg.Tickets.SetStatus)

	app.Get("/ws/admin", requireAuth, requireAdmin, cfg.Realtime.Upgrade, cfg.Realtime.Serve())
}
