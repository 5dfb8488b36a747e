package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	catalogapp "github.com/farmerp/backend/internal/application/catalog"
	harvestapp "github.com/farmerp/backend/internal/application/harvest"
	partnerapp "github.com/farmerp/backend/internal/application/partner"
	paymentapp "github.com/farmerp/backend/internal/application/payment"
	purchaseapp "github.com/farmerp/backend/internal/application/purchase"
	saleapp "github.com/farmerp/backend/internal/application/sale"
	"github.com/farmerp/backend/internal/infrastructure/cache"
	"github.com/farmerp/backend/internal/infrastructure/config"
	"github.com/farmerp/backend/internal/infrastructure/logger"
	"github.com/farmerp/backend/internal/infrastructure/persistence"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/farmerp/backend/internal/interfaces/http/handler"
	"github.com/farmerp/backend/internal/interfaces/http/middleware"
	"github.com/farmerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting farm back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the database plugins can attach to it
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.DBLogFullSQL)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.DriverName()))

	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, db.DriverName(), log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, mp, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	ledgerMetrics, err := telemetry.NewLedgerMetricsFromProvider(mp)
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	handlers := buildHandlers(db, ledgerMetrics, log)

	middleware.SetupValidator()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: tp.IsEnabled()}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(mp, log),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if cfg.Idempotency.Enabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.App.Env != "production"),
		)
		store, err := factory.CreateStore(ctx, cfg.Idempotency.Backend)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			_ = store.Close()
		}()
		engine.Use(middleware.Idempotency(store, cfg.Idempotency.TTL, log))
	}

	router.Setup(engine, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildHandlers wires repositories into application services and those into handlers
func buildHandlers(db *persistence.Database, metrics *telemetry.LedgerMetrics, log *zap.Logger) router.Handlers {
	txScope := persistence.NewGormTransactionScope(db.DB)

	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	cropRepo := persistence.NewGormCropRepository(db.DB)
	supplyRepo := persistence.NewGormSupplyRepository(db.DB)
	resourceRepo := persistence.NewGormStockResourceRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	harvestRepo := persistence.NewGormHarvestRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	purchaseRepo := persistence.NewGormSuppliesPurchaseRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	harvestService := harvestapp.NewHarvestService(harvestRepo, partnerRepo, txScope)
	harvestService.SetLogger(log)
	harvestService.SetAdjustmentRecorder(metrics)
	harvestService.SetOutcomeRecorder(metrics)

	saleService := saleapp.NewSaleService(saleRepo, partnerRepo, txScope)
	saleService.SetLogger(log)
	saleService.SetAdjustmentRecorder(metrics)
	saleService.SetOutcomeRecorder(metrics)

	purchaseService := purchaseapp.NewPurchaseService(purchaseRepo, partnerRepo, txScope)
	purchaseService.SetLogger(log)
	purchaseService.SetAdjustmentRecorder(metrics)
	purchaseService.SetOutcomeRecorder(metrics)

	cropService := catalogapp.NewCropService(cropRepo, txScope)
	cropService.SetLogger(log)
	supplyService := catalogapp.NewSupplyService(supplyRepo, txScope)
	supplyService.SetLogger(log)

	stockService := catalogapp.NewStockService(resourceRepo, movementRepo, txScope)
	stockService.SetLogger(log)
	stockService.SetAdjustmentRecorder(metrics)

	partnerService := partnerapp.NewPartnerService(partnerRepo)
	partnerService.SetLogger(log)

	paymentService := paymentapp.NewPaymentService(paymentRepo, partnerRepo, txScope)
	paymentService.SetLogger(log)

	return router.Handlers{
		Harvests:  handler.NewHarvestHandler(harvestService),
		Sales:     handler.NewSaleHandler(saleService),
		Purchases: handler.NewPurchaseHandler(purchaseService),
		Crops:     handler.NewCropHandler(cropService),
		Supplies:  handler.NewSupplyHandler(supplyService),
		Partners:  handler.NewPartnerHandler(partnerService),
		Stock:     handler.NewStockHandler(stockService),
		Payments:  handler.NewPaymentHandler(paymentService),
		System:    handler.NewSystemHandler(db, db.DriverName(), version),
	}
}
