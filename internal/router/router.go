package router

import (
	"fmt"
	"strings"

	"github.com/meeplemarket/internal/cache"
	"github.com/meeplemarket/internal/config"
	"github.com/meeplemarket/internal/constants"
	adminhandlers "github.com/meeplemarket/internal/http/handlers/admin"
	publichandlers "github.com/meeplemarket/internal/http/handlers/public"
	"github.com/meeplemarket/internal/logger"
	"github.com/meeplemarket/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		Message:       "下单过于频繁",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开目录接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/reviews", publicHandler.ListProductReviews)
			public.GET("/genres", publicHandler.ListGenres)
			public.GET("/player-ranges", publicHandler.ListPlayerRanges)
			public.GET("/payment-methods", publicHandler.ListPaymentMethods)
			public.GET("/delivery-methods", publicHandler.ListDeliveryMethods)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.POST("/cart/items/:product_id/decrease", publicHandler.DecreaseCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByUser), publicHandler.Checkout)

			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/payments/:id/settle", RateLimitMiddleware(redisClient, checkoutRule, KeyByUser), publicHandler.SettlePayment)

			user.POST("/reviews", publicHandler.AddReview)

			user.GET("/settings", publicHandler.GetSettings)
			user.PUT("/settings", publicHandler.UpdateSettings)
			user.POST("/settings/theme/toggle", publicHandler.ToggleTheme)
			user.GET("/settings/filters", publicHandler.ListSavedFilters)
			user.POST("/settings/filters", publicHandler.SaveFilter)
			user.DELETE("/settings/filters/:name", publicHandler.DeleteSavedFilter)

			user.GET("/notifications", publicHandler.ListNotifications)
			user.POST("/notifications/:id/read", publicHandler.MarkNotificationRead)
		}

		// 后台接口（需鉴权 + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), StaffRBACMiddleware(c.AuthzService))
		{
			admin.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
			admin.GET("/dashboard/sales", adminHandler.GetDashboardSales)
			admin.GET("/dashboard/rankings", adminHandler.GetDashboardRankings)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
			admin.POST("/orders/:id/ship", adminHandler.ShipOrder)
			admin.POST("/orders/:id/complete", adminHandler.CompleteOrder)

			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.GET("/genres", adminHandler.ListGenres)
			admin.POST("/genres", adminHandler.CreateGenre)
			admin.PUT("/genres/:id", adminHandler.UpdateGenre)
			admin.DELETE("/genres/:id", adminHandler.DeleteGenre)

			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
