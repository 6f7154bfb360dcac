package provider

import (
	"github.com/sellflow-next/internal/authz"
	"github.com/sellflow-next/internal/cache"
	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/queue"
	"github.com/sellflow-next/internal/repository"
	"github.com/sellflow-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	CategoryRepo      repository.CategoryRepository
	ProductRepo       repository.ProductRepository
	CartRepo          repository.CartRepository
	OrderRepo         repository.OrderRepository
	PaymentRepo       repository.PaymentRepository
	NotificationRepo  repository.NotificationRepository
	SocialAccountRepo repository.SocialAccountRepository
	SocialPostRepo    repository.SocialPostRepository
	ConversationRepo  repository.ConversationRepository

	// Services
	AuthzService        *authz.Service
	UserAuthService     *service.UserAuthService
	CaptchaService      *service.CaptchaService
	ProductService      *service.ProductService
	CategoryService     *service.CategoryService
	CartService         *service.CartService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	NotificationService *service.NotificationService
	AIContentService    *service.AIContentService
	SocialService       *service.SocialService
	ChatService         *service.ChatService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.SocialAccountRepo = repository.NewSocialAccountRepository(db)
	c.SocialPostRepo = repository.NewSocialPostRepository(db)
	c.ConversationRepo = repository.NewConversationRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.CartRepo, c.ProductRepo, c.PaymentRepo, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.UserRepo, c.OrderRepo, c.QueueClient)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.OrderService, c.NotificationService)
	c.AIContentService = service.NewAIContentService(c.Config.AI, c.ProductRepo)
	c.SocialService = service.NewSocialService(c.Config.Social, c.SocialAccountRepo, c.SocialPostRepo, c.ProductRepo, c.QueueClient, nil)
	c.ChatService = service.NewChatService(c.ConversationRepo, c.ProductRepo, c.UserRepo, c.NotificationService)
}
