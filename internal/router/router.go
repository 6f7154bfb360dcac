package router

import (
	"fmt"
	"strings"

	"github.com/sellflow-next/internal/cache"
	"github.com/sellflow-next/internal/config"
	publichandlers "github.com/sellflow-next/internal/http/handlers/public"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		// 账号认证
		users := api.Group("/users")
		{
			users.POST("/register/", RateLimitMiddleware(redisClient, registerRule, KeyByIP), handler.UserRegister)
			users.POST("/login/", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.UserLogin)
			users.GET("/captcha/", handler.GetImageCaptcha)
		}

		// 公开商品与分类
		products := api.Group("/products")
		{
			products.GET("/products/", handler.GetProducts)
			products.GET("/products/:slug/", handler.GetProductBySlug)
			products.POST("/products/:slug/track/", handler.TrackProductEngagement)
			products.GET("/categories/", handler.GetCategories)
			products.GET("/categories/:slug/", handler.GetCategoryBySlug)
		}

		// 分享链接的公开订单跟踪
		api.GET("/orders/track/:public_id/", handler.TrackOrder)

		// 顾客聊天公开通道（购物前咨询，无需账号）
		chatPublic := api.Group("/chat/public")
		{
			chatPublic.POST("/conversations/", handler.StartConversation)
			chatPublic.POST("/conversations/:id/messages/", handler.AppendCustomerMessage)
		}

		// 受保护接口：JWT 鉴权 + buyer/seller RBAC
		authorized := api.Group("")
		authorized.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			authorized.GET("/users/profile/", handler.GetProfile)
			authorized.PUT("/users/profile/", handler.UpdateProfile)
			authorized.POST("/users/change_password/", handler.ChangePassword)

			authorized.GET("/orders/cart/", handler.GetCart)
			authorized.POST("/orders/cart/add_item/", handler.AddCartItem)
			authorized.PUT("/orders/cart/update_item/:item_id/", handler.UpdateCartItem)
			authorized.DELETE("/orders/cart/remove_item/:item_id/", handler.RemoveCartItem)
			authorized.DELETE("/orders/cart/clear/", handler.ClearCart)
			authorized.POST("/orders/checkout/", handler.Checkout)

			authorized.GET("/orders/orders/", handler.ListOrders)
			// 卖家订单列表独立于 /orders/orders/:id/ 命名空间，避免通配策略覆盖
				authorized.GET("/orders/seller_orders/", handler.SellerOrders)
			authorized.GET("/orders/orders/:id/", handler.GetOrder)
			authorized.POST("/orders/orders/:id/cancel/", handler.CancelOrder)
			authorized.POST("/orders/orders/:id/status/", handler.UpdateOrderStatus)
			authorized.GET("/orders/orders/:id/payments/", handler.ListOrderPayments)
			authorized.POST("/orders/orders/:id/payments/", handler.RetryOrderPayment)
			authorized.GET("/orders/payments/:id/", handler.GetPayment)
			authorized.POST("/orders/payments/:id/process/", handler.ProcessPayment)

			authorized.GET("/notifications/", handler.ListNotifications)
			authorized.GET("/notifications/unread_count/", handler.CountUnreadNotifications)
			authorized.POST("/notifications/read_all/", handler.MarkAllNotificationsRead)
			authorized.POST("/notifications/:id/read/", handler.MarkNotificationRead)
			authorized.DELETE("/notifications/:id/", handler.DeleteNotification)

			// 卖家侧商品管理
			authorized.GET("/products/my_products/", handler.GetMyProducts)
			authorized.POST("/products/my_products/", handler.CreateMyProduct)
			authorized.GET("/products/my_products/:id/", handler.GetMyProduct)
			authorized.PUT("/products/my_products/:id/", handler.UpdateMyProduct)
			authorized.DELETE("/products/my_products/:id/", handler.DeleteMyProduct)
			authorized.POST("/products/my_products/:id/status/", handler.UpdateMyProductStatus)
			authorized.POST("/products/categories/", handler.CreateCategory)
			authorized.PUT("/products/categories/:slug/", handler.UpdateCategory)
			authorized.DELETE("/products/categories/:slug/", handler.DeleteCategory)

			// 社交发布
			authorized.GET("/social/accounts/", handler.ListSocialAccounts)
			authorized.POST("/social/accounts/", handler.ConnectSocialAccount)
			authorized.DELETE("/social/accounts/:id/", handler.DisconnectSocialAccount)
			authorized.GET("/social/posts/", handler.ListSocialPosts)
			authorized.POST("/social/posts/", handler.CreateSocialPost)
			authorized.GET("/social/posts/:id/", handler.GetSocialPost)
			authorized.PUT("/social/posts/:id/", handler.UpdateSocialPost)
			authorized.DELETE("/social/posts/:id/", handler.DeleteSocialPost)
			authorized.POST("/social/posts/:id/publish/", handler.PublishSocialPost)

			// AI 文案生成
			authorized.POST("/ai/generate/", handler.GenerateAIContent)

			// 卖家侧会话
			authorized.GET("/chat/conversations/", handler.ListConversations)
			authorized.GET("/chat/conversations/:id/", handler.GetConversation)
			authorized.POST("/chat/conversations/:id/reply/", handler.ReplyConversation)
			authorized.POST("/chat/conversations/:id/close/", handler.CloseConversation)
			authorized.POST("/chat/conversations/:id/reopen/", handler.ReopenConversation)
			authorized.GET("/chat/conversations/:id/unread_count/", handler.CountConversationUnread)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
