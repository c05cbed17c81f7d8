// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/quicktickets/backend/internal/config"
	"github.com/quicktickets/backend/internal/handler"
	"github.com/quicktickets/backend/internal/middleware"
	"github.com/quicktickets/backend/internal/model"
)

// Handlers bundles every handler the route tables need so the
// registration calls stay short.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Events     *handler.EventHandler
	Categories *handler.CategoryHandler
	Orders     *handler.OrderHandler
	Tickets    *handler.TicketHandler
	Payments   *handler.PaymentHandler
}

// RegisterPublic registers the endpoints that need no authentication:
// health, browsing events and categories. Browse responses are served
// through the Redis response cache when one is configured.
func RegisterPublic(e *echo.Echo, h Handlers, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1", middleware.ResponseCache(cacheCfg, rdb))
	g.GET("/events", h.Events.List)
	g.GET("/events/:id", h.Events.Get)
	g.GET("/events/:id/availability", h.Events.CheckAvailability)
	g.GET("/categories", h.Categories.List)
	g.GET("/categories/:id", h.Categories.Get)
}

// RegisterAuth registers signup and login. Both sit behind the rate
// limiter so credential stuffing burns the caller's bucket, not the
// database.
func RegisterAuth(e *echo.Echo, h Handlers, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.RateLimit(rlCfg, rdb))
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
}

// RegisterCustomer registers the endpoints every authenticated user
// gets: profile management, purchasing and their own orders/tickets.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// ---- Profile ----
	g.GET("/me", h.Auth.Me)
	g.PATCH("/users/me", h.Users.UpdateProfile)
	g.PUT("/users/me/password", h.Users.UpdatePassword)
	g.DELETE("/users/me", h.Users.Deactivate)

	// ---- Purchasing ----
	// Orders and payment intents get their own limiter bucket so a
	// buying spike cannot be amplified by retries.
	g.POST("/orders", h.Orders.Create, middleware.RateLimit(rlCfg, rdb))
	g.POST("/payments/intent", h.Payments.Intent, middleware.RateLimit(rlCfg, rdb))
	g.GET("/orders/mine", h.Orders.Mine)
	g.GET("/orders/:id", h.Orders.Get)

	// ---- Tickets ----
	g.GET("/tickets/mine", h.Tickets.Mine)
	g.GET("/tickets/:id", h.Tickets.Get)
	g.GET("/tickets/:id/download", h.Tickets.Download)
}

// RegisterOrganizer registers event management for organizers and
// admins, plus door-side ticket redemption.
func RegisterOrganizer(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin),
	)

	// ---- Events ----
	g.POST("/events", h.Events.Create)
	g.GET("/events/mine", h.Events.Mine)
	g.PUT("/events/:id", h.Events.Update)
	g.DELETE("/events/:id", h.Events.Delete)

	// ---- Door scanning ----
	g.POST("/tickets/:id/redeem", h.Tickets.Redeem)
}

// RegisterAdmin registers category management and the administrative
// delete endpoints.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Categories ----
	g.POST("/categories", h.Categories.Create)
	g.PUT("/categories/:id", h.Categories.Update)
	g.DELETE("/categories/:id", h.Categories.Delete)

	// ---- Admin deletes ----
	g.DELETE("/users/:id", h.Users.AdminDelete)
	g.DELETE("/orders/:id", h.Orders.AdminDelete)
}
