// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "talkx/docs" // swagger docs
	"talkx/internal/auth"
	"talkx/internal/cache"
	"talkx/internal/config"
	"talkx/internal/database"
	"talkx/internal/middleware"
	"talkx/internal/models"
	"talkx/internal/notifications"
	"talkx/internal/repository"
	"talkx/internal/service"
	"talkx/internal/tasks"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	tweetRepo      repository.TweetRepository
	followRepo     repository.FollowRepository
	likeRepo       repository.LikeRepository
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	reconciler     *tasks.Reconciler
	tokens         *auth.TokenIssuer
	providers      map[models.OAuthProvider]auth.Provider
	userService    *service.UserService
	tweetService   *service.TweetService
	followService  *service.FollowService
	likeService    *service.LikeService
	feedService    *service.FeedService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	tokens, err := auth.NewTokenIssuer(cfg)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	prom := middleware.InitMetrics("talkx-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		tweetRepo:      tweetRepo,
		followRepo:     followRepo,
		likeRepo:       likeRepo,
		tokens:         tokens,
		providers:      auth.Providers(cfg),
		reconciler:     tasks.NewReconciler(db, cfg.ReconcileInterval),
	}

	server.userService = service.NewUserService(userRepo, followRepo)
	server.tweetService = service.NewTweetService(tweetRepo, server.publishTweetEvent)
	server.followService = service.NewFollowService(followRepo, userRepo)
	server.likeService = service.NewLikeService(likeRepo, tweetRepo)
	server.feedService = service.NewFeedService(tweetRepo, followRepo, likeRepo)

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	return server, nil
}

// publishTweetEvent forwards tweet lifecycle events to the live timeline stream.
func (s *Server) publishTweetEvent(eventType string, tweet *models.Tweet) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.notifier.PublishTweetEvent(ctx, eventType, tweet); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "TalkX Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes: OAuth redirect dance plus current-session endpoints
	// /me must be registered before the /:provider wildcard.
	authGroup := api.Group("/auth")
	authGroup.Get("/me", middleware.AuthRequired, s.GetCurrentUser)
	authGroup.Post("/onboard", middleware.AuthRequired, s.CompleteOnboarding)
	authGroup.Post("/logout", middleware.AuthRequired, s.Logout)
	authGroup.Get("/:provider", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "oauth_start"), s.OAuthRedirect)
	authGroup.Get("/:provider/callback", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "oauth_callback"), s.OAuthCallback)

	// Public tweet routes; OptionalAuth annotates like status for signed-in viewers
	tweets := api.Group("/tweets")
	tweets.Get("/feed/discover", middleware.OptionalAuth, s.GetDiscoverFeed)
	tweets.Get("/feed/following", middleware.AuthRequired, s.GetFollowingFeed)
	tweets.Get("/:id", middleware.OptionalAuth, s.GetTweet)

	// Protected tweet routes
	tweets.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 30, time.Minute, "create_tweet"), s.CreateTweet)
	tweets.Patch("/:id", middleware.AuthRequired, s.UpdateTweet)
	tweets.Delete("/:id", middleware.AuthRequired, s.DeleteTweet)

	// Follow routes
	follows := api.Group("/follows", middleware.AuthRequired)
	follows.Get("/check/:userId", s.CheckFollowing)
	follows.Post("/:userId", middleware.RateLimit(
		s.redis, 60, time.Minute, "follow"), s.FollowUser)
	follows.Delete("/:userId", s.UnfollowUser)

	// Like routes
	likes := api.Group("/likes", middleware.AuthRequired)
	likes.Get("/check/:tweetId", s.CheckLiked)
	likes.Post("/:tweetId", middleware.RateLimit(
		s.redis, 120, time.Minute, "like"), s.LikeTweet)
	likes.Delete("/:tweetId", s.UnlikeTweet)

	// User routes; profiles are public with optional viewer annotation
	users := api.Group("/users")
	users.Get("/:id/tweets", middleware.OptionalAuth, s.GetUserTweets)
	users.Get("/:id", middleware.OptionalAuth, s.GetUserProfile)

	// Websocket live timeline
	api.Get("/ws/timeline", middleware.OptionalAuth, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades without Redis but readiness should surface it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "TalkX API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "TalkX API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start timeline hub wiring: %v", err)
			}
		}()
	}

	// Counter reconciliation sweep
	go s.reconciler.Start(s.shutdownCtx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop wiring and background loops
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down timeline hub: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
