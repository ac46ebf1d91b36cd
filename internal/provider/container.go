package provider

import (
	"github.com/meeplemarket/internal/authz"
	"github.com/meeplemarket/internal/cache"
	"github.com/meeplemarket/internal/config"
	"github.com/meeplemarket/internal/logger"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/queue"
	"github.com/meeplemarket/internal/repository"
	"github.com/meeplemarket/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	GenreRepo        repository.GenreRepository
	ProductRepo      repository.ProductRepository
	ReferenceRepo    repository.ReferenceRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository
	PaymentRepo      repository.PaymentRepository
	DeliveryRepo     repository.DeliveryRepository
	ReviewRepo       repository.ReviewRepository
	SettingsRepo     repository.SettingsRepository
	NotificationRepo repository.NotificationRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CatalogService      *service.CatalogService
	CartService         *service.CartService
	CheckoutService     *service.CheckoutService
	PaymentService      *service.PaymentService
	OrderService        *service.OrderService
	ReviewService       *service.ReviewService
	SettingsService     *service.SettingsService
	NotificationService *service.NotificationService
	DashboardService    *service.DashboardService
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
	c.GenreRepo = repository.NewGenreRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ReferenceRepo = repository.NewReferenceRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.SettingsRepo = repository.NewSettingsRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
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

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CatalogService = service.NewCatalogService(
		c.ProductRepo, c.GenreRepo, c.ReviewRepo, c.SettingsRepo, c.ReferenceRepo,
		c.Config.Catalog.DefaultPageSize, c.Config.Catalog.MaxPageSize,
	)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.OrderRepo, c.ProductRepo, c.CartRepo, c.PaymentRepo, c.DeliveryRepo,
		c.ReferenceRepo, c.QueueClient, c.Config.Site.Currency,
	)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.CartRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.PaymentRepo, c.DeliveryRepo, c.QueueClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.SettingsService = service.NewSettingsService(c.SettingsRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.OrderRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
