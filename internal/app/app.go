package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpController "fanhouse/internal/controller/http"
	"fanhouse/internal/repo/persistent"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/cache"
	"fanhouse/pkg/config"
	"fanhouse/pkg/database"
	"fanhouse/pkg/jwt"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/metrics"
	"fanhouse/pkg/middleware"
	"fanhouse/pkg/notify"
	"fanhouse/pkg/payment"
	"fanhouse/pkg/queue"
	"fanhouse/pkg/realtime"
	"fanhouse/pkg/storage"
	"fanhouse/pkg/verification"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fanhouse/internal/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	publisher   realtime.Publisher
	store       storage.Storage
	gateway     payment.Gateway
	verifier    verification.Provider
	metrics     *metrics.Metrics
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(context.Background(), sqlDB); err != nil {
		log.Error("Failed to migrate database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Redis only backs rate limiting and realtime events
		log.Error("Failed to connect to redis: %v (continuing without redis)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Error("Failed to initialize media storage: %v", err)
		return nil, err
	}

	gateway := payment.New(cfg)
	log.Info("Payment gateway: %s", gateway.Name())

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		publisher:   realtime.New(cfg, redisClient, log),
		store:       store,
		gateway:     gateway,
		verifier:    verification.New(cfg),
		metrics:     metrics.New(),
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) notifier() notify.Notifier {
	if a.queueClient == nil {
		return notify.NewLogNotifier(a.log)
	}
	return notify.NewQueueNotifier(a.queueClient)
}

func (a *App) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}

	var origins []string
	for _, o := range strings.Split(a.cfg.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (a *App) Run() error {
	// Initialize repositories
	userRepo := persistent.NewUserRepository(a.db)
	creatorRepo := persistent.NewCreatorRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)
	subscriptionRepo := persistent.NewSubscriptionRepository(a.db)
	unlockRepo := persistent.NewUnlockRepository(a.db)
	ledgerRepo := persistent.NewLedgerRepository(a.db)

	// Initialize use cases
	events := usecase.NewEventBus(a.publisher, a.metrics, a.log)
	gate := usecase.NewAccessGate(subscriptionRepo, unlockRepo)

	authUseCase := usecase.NewAuthUseCase(userRepo, creatorRepo, a.jwtService, a.log)
	creatorUseCase := usecase.NewCreatorUseCase(userRepo, creatorRepo, a.verifier, events, a.log)
	contentUseCase := usecase.NewContentUseCase(creatorRepo, postRepo, subscriptionRepo, gate, a.store, a.notifier(), events, a.log)
	paymentUseCase := usecase.NewPaymentUseCase(
		userRepo,
		creatorRepo,
		postRepo,
		subscriptionRepo,
		unlockRepo,
		ledgerRepo,
		a.gateway,
		events,
		a.metrics,
		a.cfg.FrontendURL,
		a.log,
	)
	adminUseCase := usecase.NewAdminUseCase(userRepo, creatorRepo, postRepo, ledgerRepo, events, a.log)

	// Initialize HTTP handlers
	handlers := httpController.Handlers{
		Auth:    httpController.NewAuthHandler(authUseCase, a.log),
		Creator: httpController.NewCreatorHandler(creatorUseCase, a.log),
		Content: httpController.NewContentHandler(contentUseCase, a.log),
		Payment: httpController.NewPaymentHandler(paymentUseCase, a.log),
		Admin:   httpController.NewAdminHandler(adminUseCase, a.log),
	}
	healthHandler := httpController.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, a.db)
	}, a.log)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.LoggerWithWriter(a.log.Writer()), gin.Recovery())
	r.Use(cors.New(a.corsConfig()))
	r.Use(middleware.MetricsMiddleware(a.metrics))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if local, ok := a.store.(*storage.LocalStorage); ok {
		r.GET(strings.TrimSuffix(storage.URLPrefix, "/")+"/*filepath", httpController.NewMediaHandler(local.Dir()).Serve)
	}

	api := r.Group("/api")
	// Stripe webhooks do not count against the per-IP budget.
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMinute, time.Minute, "/api/payment/webhook"))
	httpController.RegisterRoutes(api, handlers, middleware.AuthMiddleware(a.jwtService, authUseCase))

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Fanhouse API starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down fanhouse API...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop accepting requests before closing their dependencies
	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if err := a.publisher.Close(); err != nil {
		a.log.Error("Error closing realtime publisher: %v", err)
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Fanhouse API exited")
	return shutdownErr
}
