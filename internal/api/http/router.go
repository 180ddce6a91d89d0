package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/internal/api/http/handlers"
	"github.com/ventaplus/commerce-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Client         *handlers.ClientHandler
	Seller         *handlers.SellerHandler
	Admin          *handlers.AdminHandler
	AdminStats     *handlers.AdminStatsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Get("/me", cfg.AuthMiddleware.Optional, cfg.Auth.Me)
	authGroup.Post("/change-password", cfg.AuthMiddleware.Authenticate, cfg.Auth.ChangePassword)
	authGroup.Put("/profile", cfg.AuthMiddleware.Authenticate, cfg.Auth.UpdateProfile)

	// Public storefront catalog.
	api.Get("/categories", cfg.Client.ListCategories)
	api.Get("/categories/:id", cfg.Client.GetCategory)
	api.Get("/products", cfg.Client.ListProducts)
	api.Get("/products/active-count", cfg.Client.ActiveProductCount)
	api.Get("/products/:id", cfg.Client.GetProduct)
	api.Get("/orders/:id/details", cfg.Client.OrderPublicDetails)

	client := api.Group("/client", cfg.AuthMiddleware.Authenticate, auth.RequireRole(auth.RoleClient))
	client.Post("/orders", cfg.Client.PlaceOrder)
	client.Get("/orders", cfg.Client.MyOrders)
	client.Get("/orders/recent", cfg.Client.RecentOrders)
	client.Get("/orders/:id", cfg.Client.OrderDetail)
	client.Post("/orders/:id/cancel", cfg.Client.CancelOrder)
	client.Post("/orders/:id/reorder", cfg.Client.Reorder)
	client.Get("/profile/stats", cfg.Client.ProfileStats)
	client.Get("/favorites", cfg.Client.Favorites)

	seller := api.Group("/seller", cfg.AuthMiddleware.Authenticate, auth.RequireRole(auth.RoleSeller))
	seller.Get("/dashboard", cfg.Seller.Dashboard)
	seller.Get("/orders", cfg.Seller.Orders)
	seller.Get("/orders/:id", cfg.Seller.OrderDetail)
	seller.Put("/orders/:id/status", cfg.Seller.UpdateOrderStatus)
	seller.Post("/orders/:id/claim", cfg.Seller.ClaimOrder)
	seller.Get("/products", cfg.Seller.Products)
	seller.Put("/products/stock", cfg.Seller.BulkUpdateStock)
	seller.Put("/products/:id/stock", cfg.Seller.UpdateStock)
	seller.Put("/products/:id/toggle", cfg.Seller.ToggleProduct)

	admin := api.Group("/admin", cfg.AuthMiddleware.Authenticate, auth.RequireRole(auth.RoleAdmin))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Get("/users/:id", cfg.Admin.GetUser)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Put("/users/:id/active", cfg.Admin.SetUserActive)
	admin.Get("/sellers", cfg.Admin.ListSellers)
	admin.Get("/clients", cfg.Admin.ListClients)
	admin.Get("/roles", cfg.Admin.ListRoles)
	admin.Get("/roles/:id", cfg.Admin.GetRole)

	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Put("/categories/:id", cfg.Admin.UpdateCategory)
	admin.Delete("/categories/:id", cfg.Admin.DeleteCategory)

	admin.Get("/products", cfg.Admin.ListProducts)
	admin.Get("/products/stats", cfg.Admin.ProductStats)
	admin.Get("/products/export", cfg.Admin.ExportProducts)
	admin.Post("/products", cfg.Admin.CreateProduct)
	admin.Get("/products/:id", cfg.Admin.GetProduct)
	admin.Put("/products/:id", cfg.Admin.UpdateProduct)
	admin.Delete("/products/:id", cfg.Admin.DeleteProduct)
	admin.Put("/products/:id/toggle", cfg.Admin.ToggleProduct)

	admin.Get("/orders", cfg.Admin.ListOrders)
	admin.Get("/orders/export", cfg.Admin.ExportOrders)
	admin.Get("/orders/stats", cfg.Admin.OrderStats)
	admin.Get("/orders/:id", cfg.Admin.OrderDetail)
	admin.Put("/orders/:id/status", cfg.Admin.UpdateOrderStatus)
	admin.Put("/orders/:id/seller", cfg.Admin.AssignSeller)
	admin.Delete("/orders/:id", cfg.Admin.DeleteOrder)

	stats := admin.Group("/stats")
	stats.Get("/dashboard", cfg.AdminStats.Dashboard)
	stats.Get("/sales-by-day", cfg.AdminStats.SalesByDay)
	stats.Get("/sales-by-seller", cfg.AdminStats.SalesBySeller)
	stats.Get("/top-products", cfg.AdminStats.TopProducts)
	stats.Get("/users-growth", cfg.AdminStats.UsersGrowth)
	stats.Get("/orders-by-status", cfg.AdminStats.OrdersByStatus)
	stats.Get("/orders-period", cfg.AdminStats.OrdersPeriod)
	stats.Get("/revenue", cfg.AdminStats.Revenue)
	stats.Get("/rates", cfg.AdminStats.Rates)
	stats.Get("/revenue-breakdown", cfg.AdminStats.RevenueBreakdown)
	stats.Get("/top-clients", cfg.AdminStats.TopClients)
}
