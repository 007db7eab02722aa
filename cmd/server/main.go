package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appledger "github.com/condoledger/backend/internal/application/ledger"
	"github.com/condoledger/backend/internal/infrastructure/config"
	"github.com/condoledger/backend/internal/infrastructure/logger"
	"github.com/condoledger/backend/internal/infrastructure/persistence"
	"github.com/condoledger/backend/internal/interfaces/http/handler"
	"github.com/condoledger/backend/internal/interfaces/http/middleware"
	"github.com/condoledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	uow := persistence.NewGormUnitOfWork(db.DB)
	locks := appledger.NewKeyedLocks()

	buildingSvc := appledger.NewBuildingService(uow, locks, log)
	expenseSvc := appledger.NewExpenseService(uow, locks, log)
	paymentSvc := appledger.NewPaymentService(uow, locks, log)
	balanceSvc := appledger.NewBalanceService(uow, log)
	recurringSvc := appledger.NewRecurringService(uow, locks, log)
	closingSvc := appledger.NewClosingService(uow, locks, log)
	reconcileSvc := appledger.NewReconciliationService(uow, locks, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.LedgerRoutes(router.Handlers{
			Building:       handler.NewBuildingHandler(buildingSvc),
			Expense:        handler.NewExpenseHandler(expenseSvc),
			Payment:        handler.NewPaymentHandler(paymentSvc),
			Balance:        handler.NewBalanceHandler(balanceSvc),
			Closing:        handler.NewClosingHandler(closingSvc),
			Recurring:      handler.NewRecurringHandler(recurringSvc),
			Reconciliation: handler.NewReconciliationHandler(reconcileSvc),
		})...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
