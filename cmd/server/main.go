package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	couponapp "github.com/storefront/backend/internal/application/coupon"
	eventapp "github.com/storefront/backend/internal/application/event"
	notificationapp "github.com/storefront/backend/internal/application/notification"
	orderapp "github.com/storefront/backend/internal/application/order"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/mail"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if providers.Enabled() {
		// ship logs through OTLP as well once the pipeline exists
		if log, err = logger.New(logCfg, providers.LogCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.Server.Port),
		zap.String("notification_mode", cfg.Notification.Mode),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create tables", zap.Error(err))
		}
	}
	meter := providers.Meter("storefront")
	if err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Tracing:       cfg.Telemetry.DBTraceEnabled,
		DBSystem:      db.Driver,
		SlowThreshold: cfg.Database.SlowThreshold,
	}, meter, log); err != nil {
		log.Warn("Database instrumentation disabled", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	stores, err := cache.NewStores(cfg, cache.WithLogger(log), cache.WithInMemoryFallback(!cfg.IsProduction()))
	if err != nil {
		log.Fatal("Failed to initialize session stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing session stores", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Notifications
	sender, senderCloser, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mail transport", zap.Error(err))
	}
	defer func() {
		if err := senderCloser.Close(); err != nil {
			log.Error("Error closing mail transport", zap.Error(err))
		}
	}()
	dispatcher := notificationapp.NewDispatcher(sender, notificationapp.DispatcherConfig{
		OperationsEmail: cfg.Notification.OperationsEmail,
		FromEmail:       cfg.Notification.FromEmail,
	}, log)

	// Application services
	couponService := couponapp.NewService(couponRepo)
	pricingEngine := pricingapp.NewEngine(cfg.Storefront.TaxRate,
		pricingapp.NewShippingPolicyProvider(settingsRepo, cfg.Storefront.ShippingCacheTTL))
	cartService := cartapp.NewService(cartRepo, productRepo, customerRepo, couponService, pricingEngine)
	orderService := orderapp.NewService(orderRepo, addressRepo, customerRepo, log)
	reviewService := catalogapp.NewReviewService(productRepo, reviewRepo, log)
	wishlistService := catalogapp.NewWishlistService(productRepo, wishlistRepo)

	checkoutMetrics, err := telemetry.NewCheckoutMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create checkout metrics", zap.Error(err))
	}

	serializer := event.NewStorefrontSerializer()
	scope := persistence.NewGormTransactionScope(db.DB, serializer, cfg.Outbox.MaxRetries)

	var (
		notifier     checkoutapp.OrderNotifier = dispatcher
		outboxStats  handler.OutboxStatsService
		outboxWorker *event.OutboxProcessor
	)
	if cfg.Notification.Mode == config.NotificationModeOutbox {
		notifier = nil

		bus := event.NewInMemoryEventBus(log)
		placed := event.NewIdempotentHandler(
			notificationapp.NewOrderPlacedHandler(orderRepo, customerRepo, addressRepo, dispatcher, log),
			stores.Idempotency,
			shared.DefaultIdempotencyConfig(),
			log,
		)
		bus.Subscribe(placed, order.EventTypeOrderPlaced)

		outboxWorker = event.NewOutboxProcessor(outboxRepo, bus, serializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Outbox.BatchSize,
			PollInterval:     cfg.Outbox.PollInterval,
			CleanupEnabled:   cfg.Outbox.CleanupEnabled,
			CleanupInterval:  cfg.Outbox.CleanupInterval,
			CleanupRetention: cfg.Outbox.CleanupRetention,
		}, log)
		if err := outboxWorker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		outboxStats = eventapp.NewOutboxService(outboxRepo, log)
	}

	checkoutService := checkoutapp.NewService(
		scope, cartRepo, productRepo, addressRepo, couponService, pricingEngine, notifier,
		checkoutapp.Config{
			CODPaymentMethod: cfg.Storefront.CODPaymentMethod,
			PaymentMethods:   cfg.Storefront.PaymentMethods,
			DefaultStatus:    order.Status(cfg.Storefront.OrderStatus),
			NotificationMode: checkoutapp.NotificationMode(cfg.Notification.Mode),
		},
		checkoutapp.WithMetrics(checkoutMetrics),
		checkoutapp.WithLogger(log),
	)

	// HTTP
	sessions := handler.NewSessions(stores.Sessions, cfg.Session.TTL)
	engine := router.New(router.Options{
		Config: cfg,
		Logger: log,
		Meter:  meter,
		Tokens: auth.NewJWTService(cfg.JWT),
	}, router.Handlers{
		Cart:     handler.NewCartHandler(cartService, sessions),
		Checkout: handler.NewCheckoutHandler(checkoutService, sessions),
		Orders:   handler.NewOrderHandler(orderService),
		Admin:    handler.NewAdminHandler(orderService, outboxStats),
		Catalog:  handler.NewCatalogHandler(reviewService, wishlistService),
		Health: handler.NewHealthHandler(version, map[string]handler.HealthCheck{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if outboxWorker != nil {
		if err := outboxWorker.Stop(ctx); err != nil {
			log.Error("Outbox processor did not stop cleanly", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
