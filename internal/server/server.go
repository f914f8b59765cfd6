// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "socialapp/docs" // swagger docs
	"socialapp/internal/auth"
	"socialapp/internal/bootstrap"
	"socialapp/internal/cache"
	"socialapp/internal/config"
	"socialapp/internal/middleware"
	"socialapp/internal/models"
	"socialapp/internal/repository"
	"socialapp/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *repository.Store
	cache          *cache.Cache
	runtime        *bootstrap.Runtime
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	authService    *service.AuthService
	userService    *service.UserService
	followService  *service.FollowService
	postService    *service.PostService
}

// NewServer connects the configured store, Redis and tracing and builds a server on them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ServiceName: "socialapp-api"})
	if err != nil {
		return nil, err
	}

	server, err := NewServerWithDeps(cfg, rt.Store, rt.Cache)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	server.runtime = rt
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the store and Redis.
func NewServerWithDeps(cfg *config.Config, store *repository.Store, c *cache.Cache) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if c == nil {
		c = cache.New(nil)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL(), cfg.JWTIssuer, cfg.JWTAudience)

	return &Server{
		config:         cfg,
		store:          store,
		cache:          c,
		promMiddleware: middleware.InitMetrics("socialapp-api"),
		authService:    service.NewAuthService(store.Users, tokens, c),
		userService:    service.NewUserService(store.Users, store.Posts, store.Follows),
		followService:  service.NewFollowService(store.Users, store.Follows),
		postService:    service.NewPostService(store.Posts, store.Users, c),
	}, nil
}

// App builds the fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	bodyLimit := s.config.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 4
	}

	app := fiber.New(fiber.Config{
		AppName:   "Social App API",
		BodyLimit: bodyLimit * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span and X-Trace-ID header
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", s.Login)
	authGroup.Get("/me", s.AuthRequired(), s.GetCurrentUser)
	authGroup.Post("/logout", s.AuthRequired(), s.Logout)

	// Post routes
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Post("/:id/like", s.AuthRequired(), s.ToggleLike)
	posts.Post("/:id/comment", s.AuthRequired(), s.AddComment)
	posts.Get("/:id", s.GetPost)

	// User routes; fixed segments before /:username
	users := api.Group("/users")
	users.Get("/id/:id", s.GetUserByID)
	users.Put("/profile", s.AuthRequired(), s.UpdateProfile)
	users.Get("/:username/followers", s.GetFollowers)
	users.Get("/:username/following", s.GetFollowing)
	users.Post("/:username/follow", s.AuthRequired(), s.ToggleFollow)
	users.Get("/:username", s.GetUserProfile)
}

// Root handles GET /
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Social App API is running"})
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
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	// The app runs without Redis, so a missing client does not fail readiness.
	redisStatus := "unavailable"
	if client := s.cache.Client(); client != nil {
		redisStatus = "healthy"
		if err := client.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"driver": s.store.Driver,
		"time":   time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port), slog.String("store", s.store.Driver))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.runtime != nil {
		if err := s.runtime.Close(ctx); err != nil {
			return err
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
