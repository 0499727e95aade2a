// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "outstagram/docs" // swagger docs
	"outstagram/internal/auth"
	"outstagram/internal/cache"
	"outstagram/internal/config"
	"outstagram/internal/database"
	"outstagram/internal/middleware"
	"outstagram/internal/models"
	"outstagram/internal/notifications"
	"outstagram/internal/repository"
	"outstagram/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config  *config.Config
	db      *gorm.DB
	redis   *redis.Client
	app     *fiber.App
	tokens  *auth.TokenManager
	limiter *middleware.RateLimiter

	accounts *service.AccountService
	feed     *service.FeedComposer
	profiles *service.ProfileService
	posts    *service.PostService
	comments *service.CommentService
	follows  *service.FollowService
}

// NewServer connects to the database (applying the configured schema policy)
// and Redis, and builds a Server from them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// nil when Redis is unreachable; caching, rate limiting and
	// notifications degrade instead of failing requests.
	redisClient := cache.Connect(ctx, cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when the caller owns DB/Redis setup.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	userRepo := repository.NewUserRepository(db, cache.New(redisClient))
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tx := repository.NewTransactor(db)

	var notifier service.Notifier
	if redisClient != nil && cfg.NotificationsEnabled {
		notifier = notifications.NewNotifier(redisClient)
	}

	graph := service.NewGraphService(followRepo)
	feed := service.NewFeedComposer(tx, graph, postRepo)

	return &Server{
		config:   cfg,
		db:       db,
		redis:    redisClient,
		tokens:   tokens,
		limiter:  middleware.NewRateLimiter(redisClient, cfg.RateLimitEnabled),
		accounts: service.NewAccountService(userRepo, auth.NewPasswordHasher(0), tokens),
		feed:     feed,
		profiles: service.NewProfileService(tx, userRepo, postRepo, followRepo, graph, feed),
		posts:    service.NewPostService(tx, postRepo, likeRepo, userRepo, notifier),
		comments: service.NewCommentService(tx, postRepo, commentRepo, likeRepo),
		follows:  service.NewFollowService(tx, userRepo, followRepo, notifier),
	}, nil
}

// NewApp returns a Fiber app with the shared error handler, middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Outstagram API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagates request and user ids into the request context for logging
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.InitMetrics(app, "outstagram-api"))

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return !s.config.RateLimitEnabled || c.Method() == fiber.MethodOptions
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", s.limiter.Handler("register", 5, 10*time.Minute, middleware.FailOpen), s.Register)
	authRoutes.Post("/login", s.limiter.Handler("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)

	protected := api.Group("", middleware.AuthRequired(s.tokens))

	protected.Get("/feed", s.GetFeed)
	protected.Get("/dashboard", s.GetDashboard)

	users := protected.Group("/users")
	users.Get("/me", s.GetMe)
	// Specific /:username/:resource routes before the generic /:username route
	users.Get("/:username/posts", s.GetUserPosts)
	users.Get("/:username/followers", s.GetFollowers)
	users.Get("/:username/following", s.GetFollowing)
	users.Post("/:username/follow",
		s.limiter.Handler("follow_request", 20, 5*time.Minute, middleware.FailOpen), s.SendFollowRequest)
	users.Get("/:username", s.GetProfile)

	followRequests := protected.Group("/follow-requests")
	followRequests.Get("/incoming", s.GetIncomingRequests)
	followRequests.Get("/outgoing", s.GetOutgoingRequests)
	followRequests.Post("/:id/approve", s.ApproveFollowRequest)
	followRequests.Post("/:id/reject", s.RejectFollowRequest)

	posts := protected.Group("/posts")
	posts.Post("/", s.limiter.Handler("create_post", 10, 5*time.Minute, middleware.FailOpen), s.CreatePost)
	posts.Post("/:id/like/toggle", s.TogglePostLike)
	posts.Put("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Get("/:id/likes", s.GetPostLikes)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments",
		s.limiter.Handler("create_comment", 30, time.Minute, middleware.FailOpen), s.CreateComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/:id/like/toggle", s.ToggleCommentLike)
	comments.Delete("/:id", s.DeleteComment)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: the
// service stays ready without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown stops the HTTP server and releases the database and Redis handles.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
