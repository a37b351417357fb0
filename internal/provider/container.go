package provider

import (
	"fmt"
	"time"

	"github.com/mesa-next/internal/authz"
	"github.com/mesa-next/internal/cache"
	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/notify"
	"github.com/mesa-next/internal/queue"
	"github.com/mesa-next/internal/repository"
	"github.com/mesa-next/internal/service"
	"github.com/mesa-next/internal/storage"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Store       storage.Store
	Broker      notify.Broker

	// Repositories
	RestaurantRepo   repository.RestaurantRepository
	SubscriptionRepo repository.SubscriptionRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	OrderRepo        repository.OrderRepository
	AccountRepo      repository.AccountRepository

	// Services
	AuthzService   *authz.Service
	MenuService    *service.MenuService
	CatalogService *service.CatalogService
	OrderService   *service.OrderService
	SessionService *service.SessionService
	CaptchaService *service.CaptchaService
	AuthService    *service.AuthService
	SeedService    *service.SeedService
	AdminService   *service.AdminService
	ExportService  *service.ExportService
}

// Dependencies 外部资源
type Dependencies struct {
	DB          *gorm.DB
	Store       storage.Store
	Broker      notify.Broker
	QueueClient *queue.Client
}

// NewContainer 按配置初始化外部资源并组装容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，失败时降级为禁用
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	store, err := storage.New(cfg.Storage, models.DB, cache.Client())
	if err != nil {
		return nil, fmt.Errorf("init storage failed: %w", err)
	}

	broker, err := notify.New(cfg.Notify, cache.Client())
	if err != nil {
		logger.Warnw("provider_init_notify_failed", "driver", cfg.Notify.Driver, "error", err)
		broker = notify.NewMemoryBroker()
	}

	return Build(cfg, Dependencies{
		DB:          models.DB,
		Store:       store,
		Broker:      broker,
		QueueClient: queueClient,
	})
}

// Build 使用给定资源组装容器
func Build(cfg *config.Config, deps Dependencies) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	if deps.Broker == nil {
		deps.Broker = notify.NewMemoryBroker()
	}
	if deps.QueueClient == nil {
		deps.QueueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: deps.QueueClient,
		Store:       deps.Store,
		Broker:      deps.Broker,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(deps.DB); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initRepositories() {
	c.RestaurantRepo = repository.NewRestaurantRepository(c.Store)
	c.SubscriptionRepo = repository.NewSubscriptionRepository(c.Store)
	c.CategoryRepo = repository.NewCategoryRepository(c.Store)
	c.ProductRepo = repository.NewProductRepository(c.Store)
	c.OrderRepo = repository.NewOrderRepository(c.Store)
	c.AccountRepo = repository.NewAccountRepository(c.Store)
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	menuTTL := time.Duration(c.Config.Menu.CacheTTLSeconds) * time.Second
	c.MenuService = service.NewMenuService(c.RestaurantRepo, c.SubscriptionRepo, c.CategoryRepo, c.ProductRepo, menuTTL)
	c.CatalogService = service.NewCatalogService(c.CategoryRepo, c.ProductRepo, c.MenuService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.MenuService, c.QueueClient, c.Broker)
	c.SessionService = service.NewSessionService(c.MenuService, c.OrderService, c.Config.Checkout.DefaultPhonePrefix, c.Config.Session.IdleTTL()).
		WithMaxLineQuantity(c.Config.Checkout.MaxLineQuantity)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AccountRepo, c.RestaurantRepo, c.SubscriptionRepo, c.CaptchaService, c.QueueClient)
	c.SeedService = service.NewSeedService(c.RestaurantRepo, c.SubscriptionRepo, c.CategoryRepo, c.ProductRepo, c.OrderRepo, c.AccountRepo, c.AuthService)
	c.AdminService = service.NewAdminService(c.RestaurantRepo, c.SubscriptionRepo, c.MenuService, c.SeedService)
	c.ExportService = service.NewExportService(c.OrderRepo)
	return nil
}

// Close 释放容器持有的连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Broker != nil {
		if err := c.Broker.Close(); err != nil {
			logger.Warnw("provider_close_broker_failed", "error", err)
		}
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
