package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pingv2/ping-service/internal/cache"
	"github.com/pingv2/ping-service/internal/config"
	"github.com/pingv2/ping-service/internal/database"
	"github.com/pingv2/ping-service/internal/handler"
	"github.com/pingv2/ping-service/internal/journal"
	"github.com/pingv2/ping-service/internal/middleware"
	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/internal/service"
	"github.com/pingv2/ping-service/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Ping exchange journal
	jnl, err := journal.New(cfg.JournalPath)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer jnl.Close()

	// Redis: security-flag cache + rate limiting
	flagCache, err := cache.NewFlagCache(cfg.RedisURL, cfg.FlagCacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer flagCache.Close()

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	moduleRepo := repository.NewModuleRepository(database.DB)

	// Services
	userService := service.NewUserService(userRepo, messageRepo)
	pingService := service.NewPingService(moduleRepo, messageRepo, jnl, flagCache, cfg.PingEnforceRoleGrant)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)

	// Replay exchanges the store never saw before accepting traffic.
	if err := pingService.RecoverJournal(); err != nil {
		log.Fatalf("Journal recovery failed: %v", err)
	}

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	pingHandler := handler.NewPingHandler(pingService)
	authHandler := handler.NewAuthHandler(authService)

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(rateLimiter.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/echo", pingHandler.Echo)

	// Protected routes (require JWT)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/ping", pingHandler.SendPing)

		// User management is restricted to administrators.
		users := protected.Group("/users", middleware.AdminMiddleware())
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.GetDetails)
			users.GET("/:id/messages", userHandler.GetDetailsWithMessages)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
