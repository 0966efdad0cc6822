package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogapp "github.com/multistore/backend/internal/application/catalog"
	contentapp "github.com/multistore/backend/internal/application/content"
	customerapp "github.com/multistore/backend/internal/application/customer"
	identityapp "github.com/multistore/backend/internal/application/identity"
	mediaapp "github.com/multistore/backend/internal/application/media"
	"github.com/multistore/backend/internal/application/notification"
	orderapp "github.com/multistore/backend/internal/application/order"
	paymentapp "github.com/multistore/backend/internal/application/payment"
	reportapp "github.com/multistore/backend/internal/application/report"
	shippingapp "github.com/multistore/backend/internal/application/shipping"
	storeapp "github.com/multistore/backend/internal/application/store"
	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
	"github.com/multistore/backend/internal/infrastructure/auth"
	"github.com/multistore/backend/internal/infrastructure/cache"
	"github.com/multistore/backend/internal/infrastructure/config"
	"github.com/multistore/backend/internal/infrastructure/crypto"
	"github.com/multistore/backend/internal/infrastructure/email"
	"github.com/multistore/backend/internal/infrastructure/event"
	"github.com/multistore/backend/internal/infrastructure/logger"
	"github.com/multistore/backend/internal/infrastructure/payment"
	"github.com/multistore/backend/internal/infrastructure/persistence"
	"github.com/multistore/backend/internal/infrastructure/scheduler"
	"github.com/multistore/backend/internal/infrastructure/shipping"
	"github.com/multistore/backend/internal/infrastructure/storage"
	"github.com/multistore/backend/internal/infrastructure/telemetry"
	"github.com/multistore/backend/internal/interfaces/http/handler"
	"github.com/multistore/backend/internal/interfaces/http/middleware"
	"github.com/multistore/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting MultiStore Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Telemetry providers
	var tracerProvider *telemetry.TracerProvider
	var meterProvider *telemetry.MeterProvider
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(rootCtx, telemetry.TracerConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Tracing disabled, collector unreachable", zap.Error(err))
		}

		meterProvider, err = telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Metrics disabled, collector unreachable", zap.Error(err))
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if tracerProvider != nil {
			_ = tracerProvider.Shutdown(shutdownCtx)
		}
		if meterProvider != nil {
			_ = meterProvider.Shutdown(shutdownCtx)
		}
	}()

	if cfg.Telemetry.ProfilingEnabled {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:         true,
			ServerAddress:   cfg.Telemetry.ProfilingServer,
			ApplicationName: cfg.Telemetry.ServiceName,
		}, log)
		if err != nil {
			log.Warn("Profiling disabled", zap.Error(err))
		} else {
			defer func() { _ = profiler.Stop() }()
		}
	}

	// Database
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		dbPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbPlugin.Register(db.DB); err != nil {
			log.Warn("Database tracing not registered", zap.Error(err))
		}
	}

	// Redis is optional: the token blacklist, idempotency store and courier
	// token cache fall back to in-process implementations without it.
	redisClient, redisErr := cache.NewRedisClient(cfg.Redis)
	if redisErr != nil {
		log.Warn("Redis unavailable, using in-memory caches", zap.Error(redisErr))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	settingsRepo := persistence.NewGormStoreSettingsRepository(db.DB)
	adminUserRepo := persistence.NewGormAdminUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	gatewayConfigRepo := persistence.NewGormGatewayConfigRepository(db.DB)
	partnerConfigRepo := persistence.NewGormPartnerConfigRepository(db.DB)
	blogRepo := persistence.NewGormBlogRepository(db.DB)
	policyRepo := persistence.NewGormPolicyRepository(db.DB)
	heroRepo := persistence.NewGormHeroSectionRepository(db.DB)
	contactRepo := persistence.NewGormContactDetailsRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Cipher for stored gateway and courier credentials
	cipher, err := crypto.NewAESCipher(cfg.Security.EncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize encryption", zap.Error(err))
	}

	// Auth primitives
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist identityapp.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Outgoing email
	var sender notification.Sender
	if cfg.Email.Enabled {
		sender = email.NewSMTPSender(cfg.Email)
	} else {
		log.Info("Email sending disabled")
		sender = notification.NopSender{}
	}
	templates := notification.NewTemplates(cfg.App.BaseURL)
	accountMailer := notification.NewAccountMailer(sender, templates)

	// Event plumbing: aggregates write domain events to the transactional
	// outbox, the processor replays them onto the in-process bus.
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(outboxRepo, eventSerializer)
	eventBus := event.NewInMemoryEventBus(log)

	var handlerIdemStore event.IdempotencyStore
	if redisClient != nil {
		handlerIdemStore = cache.NewRedisIdempotencyStore(redisClient)
	} else {
		handlerIdemStore = cache.NewInMemoryIdempotencyStore()
	}

	orderEmails := notification.NewOrderEmailHandler(storeRepo, sender, templates, log)
	storeEmails := notification.NewStoreEmailHandler(storeRepo, sender, templates, log)
	for _, h := range []shared.EventHandler{orderEmails, storeEmails} {
		wrapped := event.NewIdempotentHandler(h, handlerIdemStore, log)
		eventBus.Subscribe(wrapped, wrapped.EventTypes()...)
	}

	// Application services
	authService := identityapp.NewAuthService(adminUserRepo, jwtService, blacklist, accountMailer, log)
	staffService := identityapp.NewStaffService(adminUserRepo, storeRepo, accountMailer, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, storeRepo, settingsRepo, outboxPublisher)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, outboxPublisher)
	customerService := customerapp.NewCustomerService(customerRepo)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, customerRepo, storeRepo, settingsRepo, outboxPublisher)
	storeService := storeapp.NewStoreService(storeRepo, settingsRepo, adminUserRepo, productRepo, customerRepo, orderRepo, salesReportRepo)
	analyticsService := reportapp.NewAnalyticsService(salesReportRepo)
	blogService := contentapp.NewBlogService(blogRepo)
	policyService := contentapp.NewPolicyService(policyRepo)
	heroService := contentapp.NewHeroService(heroRepo)
	contactService := contentapp.NewContactService(contactRepo)

	// Payments
	var paymentIdemStore paymentapp.IdempotencyStore
	if redisClient != nil {
		paymentIdemStore = cache.NewRedisIdempotencyStore(redisClient)
	} else {
		paymentIdemStore = cache.NewInMemoryIdempotencyStore()
	}
	gatewayResolver := payment.NewConfigGatewayResolver(gatewayConfigRepo, cipher)
	paymentService := paymentapp.NewPaymentService(gatewayResolver, gatewayConfigRepo, orderRepo, orderService, paymentIdemStore, log)
	gatewayConfigService := paymentapp.NewGatewayConfigService(gatewayConfigRepo, cipher)

	// Shipping
	var courierTokens shipping.TokenCache
	if redisClient != nil {
		courierTokens = shipping.NewRedisTokenCache(redisClient)
	} else {
		courierTokens = shipping.NewMemoryTokenCache()
	}
	partnerResolver := shipping.NewConfigPartnerResolver(partnerConfigRepo, cipher, courierTokens)
	shippingService := shippingapp.NewShippingService(partnerResolver, partnerConfigRepo, orderRepo, orderService, log)
	partnerConfigService := shippingapp.NewPartnerConfigService(partnerConfigRepo, cipher)

	// Media storage
	var mediaStorage mediaapp.Storage
	if cfg.Storage.Provider == "s3" {
		mediaStorage, err = storage.NewS3Storage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
	} else {
		log.Warn("Using in-memory media storage, uploads are not durable")
		mediaStorage = storage.NewMemoryStorage()
	}
	mediaService := mediaapp.NewMediaService(mediaStorage, cfg.Storage, log)

	// Outbox processor
	if cfg.Event.ProcessorEnabled {
		if err := eventBus.Start(rootCtx); err != nil {
			log.Fatal("Failed to start event bus", zap.Error(err))
		}
		procCfg := event.DefaultOutboxProcessorConfig()
		procCfg.BatchSize = cfg.Event.BatchSize
		procCfg.PollInterval = cfg.Event.PollInterval
		procCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		procCfg.CleanupRetention = cfg.Event.CleanupRetention
		processor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, procCfg, log)
		if err := processor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = processor.Stop(stopCtx)
			_ = eventBus.Stop(stopCtx)
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", procCfg.BatchSize),
			zap.Duration("poll_interval", procCfg.PollInterval),
		)
	}

	// Daily maintenance scheduler
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewMaintenanceExecutor(orderService, storeRepo, productRepo, sender, templates, cfg.Orders, log)
		sched := scheduler.NewScheduler(cfg.Scheduler, executor, log)
		if err := sched.Start(rootCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		trigger, err := scheduler.NewCronTrigger(cfg.Scheduler.DailyCronSchedule, sched, log)
		if err != nil {
			log.Fatal("Invalid cron schedule", zap.Error(err))
		}
		if err := trigger.Start(rootCtx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = trigger.Stop(stopCtx)
			_ = sched.Stop(stopCtx)
		}()
		log.Info("Maintenance scheduler started", zap.String("schedule", cfg.Scheduler.DailyCronSchedule))
	}

	// Commerce metrics
	if meterProvider != nil {
		commerceMetrics, err := telemetry.NewCommerceMetrics(telemetry.CommerceMetricsConfig{
			Meter:           meterProvider.Meter("multistore/commerce"),
			Logger:          log,
			CatalogProvider: lowStockCounter{products: productRepo},
		})
		if err != nil {
			log.Warn("Commerce metrics not registered", zap.Error(err))
		} else {
			commerceMetrics.StartPeriodicCollection(rootCtx, activeStoreLister{stores: storeRepo}, 5*time.Minute)
			defer commerceMetrics.Stop()
		}
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(version, db)
	authHandler := handler.NewAuthHandler(authService)
	staffHandler := handler.NewStaffHandler(staffService)
	storeHandler := handler.NewStoreHandler(storeService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	customerHandler := handler.NewCustomerHandler(customerService)
	orderHandler := handler.NewOrderHandler(orderService)
	storefrontHandler := handler.NewStorefrontHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(gatewayConfigService, paymentService)
	webhookHandler := handler.NewPaymentWebhookHandler(paymentService)
	shippingHandler := handler.NewShippingHandler(partnerConfigService, shippingService)
	contentHandler := handler.NewContentHandler(blogService, policyService, heroService, contactService)
	reportHandler := handler.NewReportHandler(analyticsService)
	mediaHandler := handler.NewMediaHandler(mediaService)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg = middleware.DefaultCORSConfig()
	}

	engine.Use(
		middleware.RequestID(),
		middleware.RequestContext(log),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TracingAttributes(),
	)
	if meterProvider != nil {
		engine.Use(middleware.HTTPMetrics(meterProvider.Meter("multistore/http"), true, log))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Credential endpoints get a second, much tighter limiter keyed by IP
	authLimit := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP()
		})
	}

	// Health endpoints sit outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ping", systemHandler.Ping)

	jwtMW := middleware.JWT(middleware.JWTConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     log,
	})
	storefrontMW := middleware.Storefront(middleware.StorefrontConfig{
		Stores:     storeRepo,
		BaseDomain: cfg.App.BaseDomain,
		Logger:     log,
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Public, no store resolution: token lifecycle, platform login, store
	// signup and tracking-token lookups.
	r.Scope("").Register(
		publicAuthRoutes(authHandler, authLimit),
		signupRoutes(storeHandler),
		trackingRoutes(storefrontHandler),
	)

	// Public storefront, the store is resolved from the host or X-Store-ID
	r.Scope("/storefront", storefrontMW).Register(
		storefrontAuthRoutes(authHandler, authLimit),
		storefrontCatalogRoutes(productHandler, categoryHandler),
		storefrontContentRoutes(contentHandler),
		storefrontCheckoutRoutes(storefrontHandler, paymentHandler, webhookHandler),
	)

	// Account endpoints need a valid token but no store binding
	r.Scope("/account", jwtMW).Register(accountRoutes(authHandler))

	// Store dashboard, JWT plus store binding
	r.Scope("/admin", jwtMW, middleware.StoreScope()).Register(
		catalogRoutes(productHandler, categoryHandler),
		customerRoutes(customerHandler, orderHandler),
		orderRoutes(orderHandler),
		paymentAdminRoutes(paymentHandler),
		shippingAdminRoutes(shippingHandler),
		contentAdminRoutes(contentHandler),
		reportRoutes(reportHandler),
		mediaRoutes(mediaHandler),
		staffRoutes(staffHandler),
		storeSelfRoutes(storeHandler),
	)

	// Platform operations on stores
	r.Scope("/platform", jwtMW, middleware.RequirePlatformAdmin()).Register(
		platformStoreRoutes(storeHandler),
	)

	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	rootCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// lowStockCounter adapts the product repository to the gauge collector,
// which only needs a count.
type lowStockCounter struct {
	products catalog.ProductRepository
}

func (l lowStockCounter) CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error) {
	items, err := l.products.FindLowStock(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

// activeStoreLister feeds periodic metric collection with the stores that
// are actually serving traffic.
type activeStoreLister struct {
	stores store.StoreRepository
}

func (a activeStoreLister) ActiveStoreIDs(ctx context.Context) ([]uuid.UUID, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500

	var ids []uuid.UUID
	for _, status := range []store.StoreStatus{store.StoreStatusTrial, store.StoreStatusActive} {
		stores, err := a.stores.FindByStatus(ctx, status, filter)
		if err != nil {
			return nil, err
		}
		for _, s := range stores {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}
