package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/http/handlers"
	"github.com/spec-kit/storefront-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Admin      *handlers.AdminHandler
	Products   *handlers.ProductsHandler
	Brands     *handlers.BrandsHandler
	Categories *handlers.CategoriesHandler
	Orders     *handlers.OrdersHandler

	Bearer  *auth.Middleware
	Session *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	// Logout and refresh do their own token extraction: logout must accept
	// dead tokens and refresh revalidates transactionally.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.Bearer.Handle, cfg.Auth.Me)

	v1 := api.Group("/v1")

	v1.Get("/products", cfg.Products.List)
	v1.Get("/products/:id", cfg.Products.Get)
	v1.Post("/products", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Products.Create)
	v1.Put("/products/:id", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Products.Update)
	v1.Delete("/products/:id", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Products.Delete)

	v1.Get("/brands", cfg.Brands.List)
	v1.Get("/brands/:id", cfg.Brands.Get)
	v1.Post("/brands", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Brands.Create)
	v1.Put("/brands/:id", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Brands.Update)
	v1.Delete("/brands/:id", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Brands.Delete)

	v1.Get("/categories", cfg.Categories.List)
	v1.Get("/categories/:id", cfg.Categories.Get)
	v1.Post("/categories", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Categories.Create)
	v1.Put("/categories/:id", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Categories.Update)
	v1.Delete("/categories/:id", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Categories.Delete)

	v1.Post("/orders", cfg.Bearer.Handle, cfg.Orders.Create)
	v1.Get("/orders", cfg.Bearer.Handle, cfg.Orders.List)
	v1.Get("/orders/:id", cfg.Bearer.Handle, cfg.Orders.Get)
	v1.Patch("/orders/:id/status", cfg.Bearer.Handle, auth.RequireAdmin(), cfg.Orders.UpdateStatus)

	admin := app.Group("/admin")
	admin.Get("/login", cfg.Admin.ShowLogin)
	admin.Post("/login", cfg.Admin.Login)
	admin.Post("/logout", cfg.Admin.Logout)
	admin.Get("/dashboard", cfg.Session.Handle, cfg.Admin.Dashboard)
}
