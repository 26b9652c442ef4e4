// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/handler"
	"github.com/ttclub/table-booking/internal/middleware"
)

// API bundles the handlers and middleware the route tree needs.
// Cache and RateLimit are built in main from the Redis client; both
// pass requests straight through when Redis is absent.
type API struct {
	JWTSecret string

	Auth      *handler.AuthHandler
	Bookings  *handler.BookingHandler
	Customers *handler.CustomerHandler
	Trainers  *handler.TrainerHandler
	Tables    *handler.TableHandler
	Users     *handler.UserHandler
	Settings  *handler.SettingsHandler
	Reports   *handler.ReportHandler

	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the whole /api tree.  Login is the only
// unauthenticated endpoint; reads are open to any authenticated role
// while mutations and most reports are admin-only.  The trainer
// report additionally admits trainer accounts, pinned to their own
// data inside the handler.
func RegisterAPI(e *echo.Echo, api API) {
	base := e.Group("/api", api.RateLimit)
	base.POST("/auth/login", api.Auth.Login)

	auth := base.Group("", middleware.JWTAuth(api.JWTSecret))
	auth.GET("/auth/me", api.Auth.Me)

	admin := auth.Group("", middleware.RequireRole("admin"))

	// ---- Bookings ----
	auth.GET("/bookings", api.Bookings.List, api.Cache)
	auth.GET("/bookings/:id", api.Bookings.Get)
	admin.POST("/bookings", api.Bookings.Create)
	admin.PUT("/bookings/:id", api.Bookings.Update)
	admin.PATCH("/bookings/:id", api.Bookings.Update)
	admin.DELETE("/bookings/:id", api.Bookings.Delete)

	// ---- Customers ----
	auth.GET("/customers", api.Customers.List)
	auth.GET("/customers/:id", api.Customers.Get)
	admin.POST("/customers", api.Customers.Create)
	admin.PUT("/customers/:id", api.Customers.Update)
	admin.PATCH("/customers/:id", api.Customers.Update)
	admin.DELETE("/customers/:id", api.Customers.Delete)

	// ---- Trainers ----
	auth.GET("/trainers", api.Trainers.List)
	auth.GET("/trainers/:id", api.Trainers.Get)
	admin.POST("/trainers", api.Trainers.Create)
	admin.PUT("/trainers/:id", api.Trainers.Update)
	admin.PATCH("/trainers/:id", api.Trainers.Update)
	admin.DELETE("/trainers/:id", api.Trainers.Delete)

	// ---- Tables ----
	auth.GET("/tables", api.Tables.List)
	auth.GET("/tables/:id", api.Tables.Get)
	admin.POST("/tables", api.Tables.Create)
	admin.PUT("/tables/:id", api.Tables.Update)
	admin.PATCH("/tables/:id", api.Tables.Update)
	admin.DELETE("/tables/:id", api.Tables.Delete)

	// ---- Users ----
	admin.GET("/users", api.Users.List)
	admin.GET("/users/:id", api.Users.Get)
	admin.POST("/users", api.Users.Create)
	admin.PUT("/users/:id", api.Users.Update)
	admin.PATCH("/users/:id", api.Users.Update)
	admin.DELETE("/users/:id", api.Users.Delete)

	// ---- Settings ----
	admin.GET("/settings", api.Settings.Get)
	admin.PUT("/settings", api.Settings.Update)

	// ---- Reports ----
	admin.GET("/reports/daily", api.Reports.Daily, api.Cache)
	admin.GET("/reports/monthly", api.Reports.Monthly, api.Cache)
	admin.GET("/reports/abo", api.Reports.Abo, api.Cache)
	admin.GET("/reports/customers", api.Reports.Customers, api.Cache)
	admin.GET("/reports/download", api.Reports.Download)
	auth.GET("/reports/trainers", api.Reports.Trainers,
		middleware.RequireRole("admin", "trainer"))
}
