package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	partnerapp "github.com/Mandoobi/jaber-backend/internal/application/partner"
	reportapp "github.com/Mandoobi/jaber-backend/internal/application/report"
	stockapp "github.com/Mandoobi/jaber-backend/internal/application/stock"
	visitplanapp "github.com/Mandoobi/jaber-backend/internal/application/visitplan"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/auth"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/cache"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/config"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/event"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/lock"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/logger"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/notification"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/persistence"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/scheduler"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/storage"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/telemetry"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/handler"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/middleware"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/router"
	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var version = "dev"

const (
	slowQueryThreshold = 200 * time.Millisecond
	eventQueueSize     = 512
	eventWorkers       = 4
	shutdownTimeout    = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = tel.BridgeLogger(log)

	log.Info("Starting jaber backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	loc, err := cfg.Reconciliation.Location()
	if err != nil {
		log.Fatal("Invalid reconciliation timezone", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), slowQueryThreshold))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, cfg.Telemetry.DBLogFullSQL); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}
	log.Info("Database connected successfully")

	readiness := map[string]handler.Pinger{"database": sqlDB}

	var redisClient *redis.Client
	if cfg.Notification.Enabled || cfg.Reconciliation.LockEnabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		readiness["redis"] = cache.HealthCheck{Client: redisClient}
	}

	// Repositories
	balanceRepo := persistence.NewGormBalanceRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	reportRepo := persistence.NewGormDailyReportRepository(db.DB)
	sampleRepo := persistence.NewGormSampleRepository(db.DB)
	planRepo := persistence.NewGormVisitPlanRepository(db.DB)
	jobRepo := persistence.NewGormRemovalJobRepository(db.DB)

	// Events
	bus := event.NewInMemoryEventBus(log, eventQueueSize, eventWorkers)
	var emitter notification.Emitter = notification.NewLogEmitter(log)
	if cfg.Notification.Enabled {
		emitter = notification.NewRedisEmitter(redisClient, cfg.Notification.ChannelPrefix, log)
	}
	notifier := notification.NewEventHandler(emitter)
	bus.Subscribe(notifier, notifier.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Services
	metrics, err := telemetry.NewReconciliationMetrics(tel.Meter())
	if err != nil {
		log.Fatal("Failed to create reconciliation metrics", zap.Error(err))
	}
	adjuster := stockapp.NewAdjuster(shared.SystemClock{})
	adjuster.SetRecorder(metrics)

	stockService := stockapp.NewStockService(balanceRepo, ledgerRepo, productRepo, userRepo, sampleRepo,
		persistence.NewGormStockTransactionScope(db.DB), adjuster, log)
	stockService.SetLocation(loc)
	stockService.SetMaxAttempts(cfg.Reconciliation.MaxAttempts)

	reconciliation := reportapp.NewReconciliationService(reportRepo, sampleRepo, balanceRepo, productRepo,
		customerRepo, planRepo, userRepo, persistence.NewGormTransactionScope(db.DB), adjuster, log)
	reconciliation.SetEventPublisher(bus)
	reconciliation.SetRecorder(metrics)
	reconciliation.SetLocation(loc)
	reconciliation.SetMaxAttempts(cfg.Reconciliation.MaxAttempts)
	if cfg.Reconciliation.LockEnabled {
		reconciliation.SetLocker(lock.NewRedisRepLocker(redislock.New(redisClient),
			cfg.Reconciliation.LockTTL, cfg.Reconciliation.LockWait, log))
	}

	var attachments *handler.AttachmentHandler
	if cfg.Storage.Enabled {
		store, err := storage.NewS3AttachmentStore(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize attachment storage", zap.Error(err))
		}
		reconciliation.SetAttachmentStore(store)
		attachments = handler.NewAttachmentHandler(store)
	}

	removal := partnerapp.NewCustomerRemovalService(customerRepo, jobRepo, planRepo, userRepo, reconciliation, log)
	removal.SetEventPublisher(bus)
	removal.SetBatchSize(cfg.Reconciliation.BatchSize)

	plans := visitplanapp.NewVisitPlanService(planRepo, customerRepo, userRepo, log)

	var sweeps *scheduler.Scheduler
	if cfg.Reconciliation.SweepInterval > 0 {
		sweeps, err = scheduler.New(scheduler.Config{
			Interval:   cfg.Reconciliation.SweepInterval,
			RunOnStart: true,
		}, log, scheduler.NewRemovalSweeper(removal, cfg.Reconciliation.SweepIdle, log))
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		if err := sweeps.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tel.Enabled(),
		}),
	)

	system := handler.NewSystemHandler(cfg.App.Name, version, readiness)
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)

	jwtService := auth.NewJWTService(cfg.JWT)
	router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(
			middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
				JWTService: jwtService,
				Logger:     log,
			}),
			middleware.SpanAttributes(),
		),
	).Register(router.Groups(router.Handlers{
		Reports:     handler.NewReportHandler(reconciliation),
		Stocks:      handler.NewStockHandler(stockService),
		Customers:   handler.NewCustomerHandler(removal),
		VisitPlans:  handler.NewVisitPlanHandler(plans),
		Attachments: attachments,
	})...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeps != nil {
		if err := sweeps.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler did not stop", zap.Error(err))
		}
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
