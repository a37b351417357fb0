package router

import (
	"net/http"
	"strings"

	"github.com/mesa-next/internal/cache"
	"github.com/mesa-next/internal/config"
	adminhandlers "github.com/mesa-next/internal/http/handlers/admin"
	ownerhandlers "github.com/mesa-next/internal/http/handlers/owner"
	publichandlers "github.com/mesa-next/internal/http/handlers/public"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/metrics"
	"github.com/mesa-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	ownerHandler := ownerhandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mesa"
	}
	loginRule := newRateLimitRule(redisPrefix, "login", cfg.Security.LoginRateLimit, "error.login_too_many")
	forgotRule := newRateLimitRule(redisPrefix, "forgot", cfg.Security.LoginRateLimit, "error.rate_limited")
	confirmRule := newRateLimitRule(redisPrefix, "confirm", cfg.Security.ConfirmRateLimit, "error.order_too_many")
	redisClient := cache.Client()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
	}

	apiV1 := r.Group("/api/v1")
	{
		// 公开菜单
		menu := apiV1.Group("/menu/:identifier")
		{
			menu.GET("", publicHandler.GetMenu)
			menu.GET("/products", publicHandler.ListMenuProducts)
			menu.GET("/products/:product_id", publicHandler.GetMenuProduct)
			menu.POST("/quote", publicHandler.QuoteProduct)
		}
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 顾客会话：购物车与结账
		session := apiV1.Group("/session/:identifier")
		{
			session.GET("/cart", publicHandler.GetCart)
			session.DELETE("/cart", publicHandler.ClearCart)
			session.POST("/cart/items", publicHandler.AddCartItem)
			session.PUT("/cart/items/:key", publicHandler.UpdateCartItem)
			session.DELETE("/cart/items/:key", publicHandler.RemoveCartItem)
			session.GET("/checkout", publicHandler.GetCheckout)
			session.POST("/checkout/mode", publicHandler.SelectCheckoutMode)
			session.POST("/checkout/back", publicHandler.CheckoutBack)
			session.PUT("/checkout/info", publicHandler.SetCheckoutInfo)
			session.POST("/checkout/continue", publicHandler.CheckoutContinue)
			session.POST("/checkout/edit", publicHandler.CheckoutEdit)
			session.POST("/checkout/confirm", RateLimitMiddleware(redisClient, confirmRule, KeyBySessionAndRestaurant(publichandlers.SessionHeader)), publicHandler.CheckoutConfirm)
			session.POST("/checkout/close", publicHandler.CheckoutClose)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/forgot-password", RateLimitMiddleware(redisClient, forgotRule, KeyByIP), publicHandler.ForgotPassword)
		}

		// 餐厅老板接口
		owner := apiV1.Group("/owner")
		owner.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AccountRepo), RBACMiddleware(c.AuthzService), RequireRestaurant())
		{
			owner.GET("/me", ownerHandler.GetProfile)

			owner.GET("/categories", ownerHandler.ListCategories)
			owner.POST("/categories", ownerHandler.CreateCategory)
			owner.PUT("/categories/:id", ownerHandler.UpdateCategory)
			owner.DELETE("/categories/:id", ownerHandler.DeleteCategory)

			owner.GET("/products", ownerHandler.ListProducts)
			owner.GET("/products/:id", ownerHandler.GetProduct)
			owner.POST("/products", ownerHandler.CreateProduct)
			owner.PUT("/products/:id", ownerHandler.UpdateProduct)
			owner.DELETE("/products/:id", ownerHandler.DeleteProduct)

			owner.GET("/orders", ownerHandler.ListOrders)
			owner.GET("/orders/export", ownerHandler.ExportOrders)
			owner.GET("/orders/live", ownerHandler.LiveOrders)
			owner.GET("/orders/:id", ownerHandler.GetOrder)
			owner.PATCH("/orders/:id/status", ownerHandler.UpdateOrderStatus)
		}

		// 超级管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AccountRepo), RBACMiddleware(c.AuthzService))
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/restaurants", adminHandler.ListRestaurants)
			admin.POST("/restaurants/:id/approve", adminHandler.ApproveRestaurant)
			admin.POST("/restaurants/:id/deactivate", adminHandler.DeactivateRestaurant)
			admin.PUT("/restaurants/:id/subscription", adminHandler.UpdateSubscription)
			admin.POST("/reset", adminHandler.ResetData)
		}
	}

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
