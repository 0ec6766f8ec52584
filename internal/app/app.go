// Package app wires the five services, the bus and the HTTP gateway
// into one runnable application.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/gateway"
	"github.com/teamtodo/server/internal/module/mail"
	"github.com/teamtodo/server/internal/module/team"
	"github.com/teamtodo/server/internal/module/todo"
	"github.com/teamtodo/server/internal/module/user"
	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/saga"
	sharedcache "github.com/teamtodo/server/internal/shared/cache"
	"github.com/teamtodo/server/internal/shared/config"
	"github.com/teamtodo/server/internal/shared/database"
	"github.com/teamtodo/server/internal/shared/logger"
	"github.com/teamtodo/server/internal/utils/metrics"
	"github.com/teamtodo/server/internal/utils/middleware"
)

// App represents the application.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	// Service bus infrastructure
	bus   *bus.Bus
	sagas *saga.Runner

	// Typed service clients
	userClient *rpc.UserClient
	teamClient *rpc.TeamClient
	todoClient *rpc.TodoClient
	mailClient *rpc.MailClient

	gatewayHandler *gateway.Handler
}

// LoadConfig loads the application configuration.
func LoadConfig() (*config.Config, error) {
	return config.Load()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	// Initialize logger
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	// Initialize zap logger for modules that use zap
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("teamtodo"),
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := db.AutoMigrate(&user.User{}, &team.Team{}, &todo.Todo{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	// Initialize Redis (optional)
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			// Redis is optional, log warning but continue
			log.Warn("Redis connection failed, running without cache", "error", err)
		} else {
			app.redis = redisClient
		}
	}

	// Initialize service bus and clients
	app.bus = bus.New(zapLog, app.metrics)
	app.sagas = saga.NewRunner(zapLog, app.metrics)
	app.userClient = rpc.NewUserClient(app.bus, &cfg.Bus, zapLog)
	app.teamClient = rpc.NewTeamClient(app.bus, &cfg.Bus, zapLog)
	app.todoClient = rpc.NewTodoClient(app.bus, &cfg.Bus, zapLog)
	app.mailClient = rpc.NewMailClient(app.bus, &cfg.Bus, zapLog)

	// Initialize services behind the bus
	app.initMailService()
	app.initUserService()
	app.initTeamService()
	app.initTodoService()

	// Initialize HTTP surface
	app.gatewayHandler = gateway.NewHandler(app.userClient, app.teamClient, app.todoClient, zapLog)
	app.router = app.setupRouter()

	return app, nil
}

// initMailService wires the mail service onto the bus.
func (a *App) initMailService() {
	var sender mail.Sender
	if a.config.Mail.Host != "" {
		sender = mail.NewSMTPSender(&a.config.Mail, a.zapLogger)
	} else {
		sender = mail.NewNoOpSender(a.zapLogger)
	}

	service := mail.NewService(sender, a.zapLogger, a.metrics)
	mail.NewHandler(service).RegisterHandlers(a.bus)
}

// initUserService wires the user store onto the bus.
func (a *App) initUserService() {
	repo := user.NewRepository(a.db)
	jwtManager := user.NewJWTManager(&user.JWTConfig{
		Secret:            a.config.Auth.JWTSecret,
		AccessTokenExpiry: a.config.Auth.AccessTokenExpiry,
		Issuer:            a.config.Auth.Issuer,
	})
	cache := user.NewSnapshotCache(a.redis, a.metrics)

	service := user.NewService(
		repo,
		jwtManager,
		a.mailClient,
		cache,
		a.zapLogger,
		a.metrics,
		a.config.Server.BaseURL,
	)
	user.NewHandler(service).RegisterHandlers(a.bus)
}

// initTeamService wires the team store onto the bus.
func (a *App) initTeamService() {
	repo := team.NewRepository(a.db)
	service := team.NewService(repo, a.userClient, a.todoClient, a.sagas, a.zapLogger)
	team.NewHandler(service).RegisterHandlers(a.bus)
}

// initTodoService wires the todo store onto the bus.
func (a *App) initTodoService() {
	repo := todo.NewRepository(a.db)
	service := todo.NewService(repo, a.userClient, a.teamClient, a.sagas, a.zapLogger)
	todo.NewHandler(service).RegisterHandlers(a.bus)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	// Set Gin mode based on environment
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(a.config.Server.CORSAllowedOrigins))

	if a.redis != nil {
		limiter := sharedcache.NewRedisRateLimiter(a.redis)
		r.Use(middleware.RateLimit(limiter, middleware.DefaultRateLimitConfig()))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := r.Group("/api/v1")

	// Public routes (no auth required)
	a.gatewayHandler.RegisterRoutes(v1)

	// Protected routes (token validated against the user service)
	protected := v1.Group("")
	protected.Use(middleware.Auth(a.userClient))
	a.gatewayHandler.RegisterProtectedRoutes(protected)

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	// Sync zap logger
	if a.zapLogger != nil {
		_ = a.zapLogger.Sync()
	}

	// Close Redis connection
	if a.redis != nil {
		_ = a.redis.Close()
	}

	// Close database connection
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
