// Package router wires the HTTP handlers and middleware onto an Echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/wedding-marketplace/internal/handler"
	"github.com/iliyamo/wedding-marketplace/internal/metrics"
	"github.com/iliyamo/wedding-marketplace/internal/middleware"
	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// Handlers groups the endpoint handlers.
type Handlers struct {
	Auth         *handler.AuthHandler
	Directory    *handler.DirectoryHandler
	Reservations *handler.ReservationHandler
	Reviews      *handler.ReviewHandler
	Availability *handler.AvailabilityHandler
}

// Options carries the cross-cutting pieces.  RateLimit and Cache may be nil.
type Options struct {
	JWTSecret string
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// New builds the Echo instance serving the whole API.
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger, opts.Metrics))
	e.Use(echomw.Recover())
	if opts.RateLimit != nil {
		e.Use(opts.RateLimit)
	}

	RegisterRoutes(e, opts.Metrics)
	RegisterPublic(e, h.Directory, opts.Cache)
	RegisterAuth(e, h.Auth, opts.JWTSecret)
	RegisterReservations(e, h.Reservations, h.Reviews, opts.JWTSecret)
	RegisterVendor(e, h.Availability, opts.JWTSecret)
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/health-check", handler.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterPublic registers the browsing pages.  They are the only routes
// worth caching.
func RegisterPublic(e *echo.Echo, d *handler.DirectoryHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	e.GET("/", d.Welcome, mw...)
	e.GET("/categories/:slug", d.Category, mw...)
	e.GET("/vendors/:id", d.Vendor, mw...)
}

// RegisterAuth registers the token endpoints under /auth and the protected
// /me.  Logout works with either a bearer token or a refresh token, so it
// stays outside JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	e.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
	e.GET("/dashboard", handler.Dashboard, middleware.JWTAuth(jwtSecret))
}

// RegisterReservations registers the reservation pages.  Any signed-in user
// may read; only couples book and review, only vendors decide.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, rv *handler.ReviewHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	couple := middleware.RequireRole(model.RoleCouple)
	vendor := middleware.RequireRole(model.RoleVendor)

	e.GET("/vendors/:id/services/:service/book", r.Book, auth)

	g := e.Group("/reservations", auth)
	g.GET("", r.Index)
	g.GET("/create", r.Create)
	g.POST("", r.Store, couple)
	g.GET("/:id", r.Show)
	g.PUT("/:id", r.Update, vendor)
	g.PATCH("/:id", r.Update, vendor)
	g.POST("/:id/review", rv.Store, couple)
}

// RegisterVendor registers the vendor-only endpoints under /vendor.
func RegisterVendor(e *echo.Echo, a *handler.AvailabilityHandler, jwtSecret string) {
	g := e.Group("/vendor", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleVendor))
	g.GET("/availability", a.Index)
	g.POST("/availability", a.Store)
}
