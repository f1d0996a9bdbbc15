package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"pointhub-backend/internal/config"
	infraCache "pointhub-backend/internal/infrastructure/cache"
	"pointhub-backend/internal/infrastructure/database"
	"pointhub-backend/internal/infrastructure/queue"
	"pointhub-backend/internal/infrastructure/storage"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/pkg/cache"
	pkgdb "pointhub-backend/pkg/database"
	"pointhub-backend/pkg/jwt"
	"pointhub-backend/pkg/logger"

	campaignHandler "pointhub-backend/internal/domains/campaign/handler"
	campaignRepo "pointhub-backend/internal/domains/campaign/repository"
	campaignService "pointhub-backend/internal/domains/campaign/service"

	dashboardHandler "pointhub-backend/internal/domains/dashboard/handler"
	dashboardRepo "pointhub-backend/internal/domains/dashboard/repository"
	dashboardService "pointhub-backend/internal/domains/dashboard/service"

	loyaltyHandler "pointhub-backend/internal/domains/loyalty/handler"
	loyaltyService "pointhub-backend/internal/domains/loyalty/service"

	outletHandler "pointhub-backend/internal/domains/outlet/handler"
	outletRepo "pointhub-backend/internal/domains/outlet/repository"
	outletService "pointhub-backend/internal/domains/outlet/service"

	orderHandler "pointhub-backend/internal/domains/order/handler"
	orderJob "pointhub-backend/internal/domains/order/job"
	orderRepo "pointhub-backend/internal/domains/order/repository"
	orderService "pointhub-backend/internal/domains/order/service"

	posHandler "pointhub-backend/internal/domains/pos/handler"
	posService "pointhub-backend/internal/domains/pos/service"

	productHandler "pointhub-backend/internal/domains/product/handler"
	productRepo "pointhub-backend/internal/domains/product/repository"
	productService "pointhub-backend/internal/domains/product/service"

	userHandler "pointhub-backend/internal/domains/user/handler"
	userRepo "pointhub-backend/internal/domains/user/repository"
	userService "pointhub-backend/internal/domains/user/service"

	voucherHandler "pointhub-backend/internal/domains/voucher/handler"
	voucherJob "pointhub-backend/internal/domains/voucher/job"
	voucherRepo "pointhub-backend/internal/domains/voucher/repository"
	voucherService "pointhub-backend/internal/domains/voucher/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the dependency graph shared by the API and the worker.
type Container struct {
	// INFRASTRUCTURE
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	TxManager   pkgdb.TxManager
	Clock       clock.Clock
	QueueClient *queue.Client
	Images      *storage.MinIOStorage

	// REPOSITORIES
	UserRepo      userRepo.RepositoryInterface
	OutletRepo    outletRepo.RepositoryInterface
	CampaignRepo  campaignRepo.RepositoryInterface
	ProductRepo   productRepo.RepositoryInterface
	VoucherRepo   voucherRepo.RepositoryInterface
	OrderRepo     orderRepo.RepositoryInterface
	DashboardRepo dashboardRepo.RepositoryInterface

	// SERVICES
	UserService      userService.ServiceInterface
	OutletService    outletService.ServiceInterface
	CampaignService  campaignService.ServiceInterface
	ProductService   productService.ServiceInterface
	VoucherService   voucherService.ServiceInterface
	OrderService     orderService.ServiceInterface
	LoyaltyService   loyaltyService.ServiceInterface
	DashboardService dashboardService.ServiceInterface
	POSService       posService.ServiceInterface

	// HANDLERS
	UserHandler      *userHandler.UserHandler
	OutletHandler    *outletHandler.OutletHandler
	CampaignHandler  *campaignHandler.CampaignHandler
	ProductHandler   *productHandler.ProductHandler
	VoucherHandler   *voucherHandler.VoucherHandler
	OrderHandler     *orderHandler.OrderHandler
	LoyaltyHandler   *loyaltyHandler.LoyaltyHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	POSHandler       *posHandler.POSHandler

	// JOB HANDLERS
	ConfirmPaymentJob *orderJob.ConfirmPaymentHandler
	SweepExpiredJob   *voucherJob.SweepExpiredHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{Clock: clock.System()}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	logger.Info("config loaded", map[string]interface{}{"env": cfg.App.Environment})

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()
	c.initStorage()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	c.QueueClient = queue.NewClient(c.RedisClientOpt())

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

// RedisClientOpt is the asynq connection built from the Redis settings.
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	c.TxManager = pkgdb.NewTxManager(db.Pool)
	return nil
}

// initRedis falls back to an in-process cache when Redis is unreachable.
// The worker still needs Redis for asynq and will fail on its own.
func (c *Container) initRedis() {
	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(context.Background()); err != nil {
		logger.Warn("redis unavailable, using memory cache", map[string]interface{}{"error": err.Error()})
		_ = rc.Close()
		c.Cache = cache.NewMemoryCache()
		return
	}
	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client)
}

// initStorage leaves image upload disabled when MinIO is unreachable.
func (c *Container) initStorage() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		logger.Warn("minio unavailable, product image upload disabled", map[string]interface{}{"error": err.Error()})
		return
	}
	c.Images = s
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.OutletRepo = outletRepo.NewPostgresRepository(pool)
	c.CampaignRepo = campaignRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.VoucherRepo = voucherRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.DashboardRepo = dashboardRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	loyalty := c.Config.Loyalty

	c.OutletService = outletService.NewOutletService(c.OutletRepo, c.Clock)
	c.UserService = userService.NewUserService(c.UserRepo, c.OutletService, c.JWTManager, c.Clock)
	c.CampaignService = campaignService.NewCampaignService(c.CampaignRepo, c.Cache, loyalty.CampaignCacheTTL)

	var images productService.ImageStore
	if c.Images != nil {
		images = c.Images
	}
	c.ProductService = productService.NewProductService(
		c.ProductRepo,
		c.Cache,
		loyalty.ProductCacheTTL,
		images,
		storage.NewImageProcessor(),
		c.Clock,
	)

	c.VoucherService = voucherService.NewVoucherService(
		c.TxManager,
		c.VoucherRepo,
		c.CampaignService,
		c.UserRepo,
		c.Clock,
		voucherService.NewRandomCodeGenerator(),
		voucherService.Options{
			RequireActiveCampaign: loyalty.RequireActiveCampaign,
			CodeAttempts:          loyalty.VoucherCodeAttempts,
		},
	)

	c.OrderService = orderService.NewOrderService(
		c.TxManager,
		c.OrderRepo,
		c.CampaignService,
		c.VoucherService,
		c.UserRepo,
		c.QueueClient,
		c.Clock,
		orderService.Options{AutoConfirmDelay: loyalty.PaymentAutoConfirmDelay},
	)

	c.LoyaltyService = loyaltyService.NewLoyaltyService(c.UserRepo, c.OrderService)
	c.DashboardService = dashboardService.NewDashboardService(c.DashboardRepo)
	c.POSService = posService.NewPOSService(c.UserService, c.OrderService)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.OutletHandler = outletHandler.NewOutletHandler(c.OutletService)
	c.CampaignHandler = campaignHandler.NewCampaignHandler(c.CampaignService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.VoucherHandler = voucherHandler.NewVoucherHandler(c.VoucherService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.LoyaltyHandler = loyaltyHandler.NewLoyaltyHandler(c.LoyaltyService)
	c.DashboardHandler = dashboardHandler.NewDashboardHandler(c.DashboardService, c.Clock)
	c.POSHandler = posHandler.NewPOSHandler(c.POSService)

	c.ConfirmPaymentJob = orderJob.NewConfirmPaymentHandler(c.OrderService)
	c.SweepExpiredJob = voucherJob.NewSweepExpiredHandler(c.VoucherService, c.Config.Jobs.VoucherSweepBatch)
}

// Cleanup releases connections on shutdown.
func (c *Container) Cleanup() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Error("failed to close queue client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	logger.Info("container cleanup completed", nil)
}
