package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pointhub-backend/internal/infrastructure/metrics"
	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/shared/middleware"
	"pointhub-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
		metrics.Middleware(),
	)

	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupProductRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupLoyaltyRoutes(v1, c)
		setupPOSRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.Me)
	}
}

// ========================================
// PRODUCT ROUTES
// ========================================
func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:id", c.ProductHandler.Get)
		products.POST("/:id/cart-item", c.ProductHandler.CartItem)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("/preview", c.OrderHandler.PreviewPrice)
		orders.POST("/checkout", c.OrderHandler.Checkout)
		orders.GET("", c.OrderHandler.List)
		orders.GET("/:id", c.OrderHandler.Get)
		orders.GET("/:id/items", c.OrderHandler.Items)
		orders.POST("/:id/cancel", c.OrderHandler.Cancel)
		orders.POST("/:id/mark-paid",
			middleware.RequireRoles(userModel.RoleAdmin, userModel.RolePOS),
			c.OrderHandler.MarkPaid,
		)
	}
}

// ========================================
// LOYALTY ROUTES
// ========================================
func setupLoyaltyRoutes(v1 *gin.RouterGroup, c *container.Container) {
	loyalty := v1.Group("/loyalty")
	{
		loyalty.GET("/tiers", c.VoucherHandler.Tiers)
	}

	member := loyalty.Group("")
	member.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		member.GET("/points/:userId", c.LoyaltyHandler.GetPoints)
		member.GET("/stats/:userId", c.LoyaltyHandler.GetStats)
		member.POST("/redeem", c.VoucherHandler.Redeem)
		member.GET("/validate/:code", c.VoucherHandler.Validate)
		member.GET("/vouchers", c.VoucherHandler.List)
	}
}

// ========================================
// POS ROUTES
// ========================================
func setupPOSRoutes(v1 *gin.RouterGroup, c *container.Container) {
	pos := v1.Group("/pos")
	pos.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireRoles(userModel.RoleAdmin, userModel.RolePOS),
	)
	{
		pos.GET("/customers", c.UserHandler.List)
		pos.POST("/sales", c.POSHandler.QuickSale)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/campaign", c.CampaignHandler.Get)
		admin.PATCH("/campaign", c.CampaignHandler.Update)

		admin.GET("/users", c.UserHandler.List)
		admin.POST("/users", c.UserHandler.Create)
		admin.PATCH("/users/:id", c.UserHandler.Update)

		admin.GET("/outlets", c.OutletHandler.List)
		admin.GET("/outlets/:id", c.OutletHandler.Get)
		admin.POST("/outlets", c.OutletHandler.Create)
		admin.PATCH("/outlets/:id", c.OutletHandler.Update)
		admin.DELETE("/outlets/:id", c.OutletHandler.Delete)

		admin.POST("/products", c.ProductHandler.Create)
		admin.PATCH("/products/:id", c.ProductHandler.Update)
		admin.DELETE("/products/:id", c.ProductHandler.Delete)
		admin.POST("/products/:id/image", c.ProductHandler.UploadImage)

		admin.POST("/vouchers/issue", c.VoucherHandler.Issue)

		admin.GET("/dashboard/kpis", c.DashboardHandler.KPIs)
		admin.GET("/dashboard/revenue", c.DashboardHandler.Revenue)
		admin.GET("/reports/orders.xlsx", c.DashboardHandler.Export)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "memory fallback"
		} else if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		storageStatus := "ok"
		if appCtx.Images == nil {
			storageStatus = "disabled"
		} else if err := appCtx.Images.HealthCheck(ctx); err != nil {
			storageStatus = fmt.Sprintf("error: %v", err)
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
