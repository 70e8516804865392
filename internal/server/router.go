// Package server wires the HTTP routes and middleware for the chalan
// service.
package server

import (
	"chalan-service/internal/handler"
	"chalan-service/internal/middleware"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// New builds the echo instance with all middleware and routes attached.
func New(log *zap.Logger) *echo.Echo {
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Own profile
	users := api.Group("/users")
	users.GET("/me", handler.GetProfile)
	users.DELETE("/me", handler.DeleteProfile)

	// Clients. Reads and creates are open to any authenticated role;
	// updates and deletes require an editor role.
	clients := api.Group("/clients")
	clients.GET("", handler.ListClients)
	clients.POST("", handler.CreateClient)
	clients.GET("/:id", handler.GetClient)
	clients.PUT("/:id", handler.UpdateClient, middleware.RequireEditor)
	clients.DELETE("/:id", handler.DeleteClient, middleware.RequireEditor)
	clients.DELETE("/:id/cascade", handler.CascadeDeleteClient, middleware.RequireEditor)

	// Inventory
	inventory := api.Group("/inventory")
	inventory.GET("", handler.ListInventory)
	inventory.POST("", handler.CreateInventoryItem)
	inventory.GET("/suggest", handler.SuggestInventory)
	inventory.PUT("/:id", handler.UpdateInventoryItem, middleware.RequireEditor)
	inventory.DELETE("/:id", handler.DeleteInventoryItem, middleware.RequireEditor)

	// Chalans
	chalans := api.Group("/chalans")
	chalans.GET("", handler.ListChalans)
	chalans.POST("", handler.CreateChalan)
	chalans.GET("/next-serial", handler.NextSerial)
	chalans.GET("/:id", handler.GetChalan)
	chalans.PUT("/:id", handler.UpdateChalan, middleware.RequireEditor)
	chalans.DELETE("/:id", handler.DeleteChalan, middleware.RequireEditor)

	return e
}
