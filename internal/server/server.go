// Package server contains the HTTP handlers for the cafe pages and the like API.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	_ "cafehub/docs" // swagger docs
	"cafehub/internal/cache"
	"cafehub/internal/config"
	"cafehub/internal/middleware"
	"cafehub/internal/repository"
	"cafehub/internal/service"
	"cafehub/internal/session"
	"cafehub/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	views          fs.FS
	engine         *html.Engine
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Manager
	endpointLimit  *middleware.RateLimiter
	userRepo       repository.UserRepository
	cafeRepo       repository.CafeRepository
	cityRepo       repository.CityRepository
	authService    *service.AuthService
	cafeService    *service.CafeService
	likeService    *service.LikeService
	userService    *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer has set up DB, Redis and
// seeding. Without Redis, sessions and the global limiter stay in memory and
// the login/signup limits let requests through.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}

	var sessionStorage fiber.Storage
	if redisClient != nil {
		sessionStorage = cache.NewStorage(redisClient, "session:")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("cafehub"),
		sessions: session.NewManager(session.Config{
			Storage: sessionStorage,
			TTL:     time.Duration(cfg.SessionTTLMinutes) * time.Minute,
			Secure:  cfg.CookieSecure,
		}),
		endpointLimit: middleware.NewRateLimiter(redisClient, !cfg.IsLocal()),
		userRepo:      repository.NewUserRepository(db),
		cafeRepo:      repository.NewCafeRepository(db),
		cityRepo:      repository.NewCityRepository(db),
	}

	server.authService = service.NewAuthService(server.userRepo, cfg.BcryptCost)
	server.cafeService = service.NewCafeService(server.cafeRepo, server.cityRepo)
	server.likeService = service.NewLikeService(server.cafeRepo)
	server.userService = service.NewUserService(server.userRepo, server.cafeRepo)

	return server, nil
}

// NewApp builds the Fiber application with views, middleware and routes.
func (s *Server) NewApp() (*fiber.App, error) {
	if s.views == nil {
		views, err := fs.Sub(web.Views, "views")
		if err != nil {
			return nil, err
		}
		s.views = views
	}
	s.engine = html.NewFileSystem(http.FS(s.views), ".html")

	app := fiber.New(fiber.Config{
		AppName:      "Cafe Directory",
		Views:        s.engine,
		ErrorHandler: s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app, nil
}

// SetupMiddleware configures middleware shared by every route
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.Tracing())
	}

	// Request and trace IDs for service logs
	app.Use(middleware.RequestContext())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Cafe photos are hot-linked from other origins.
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.AccessLog())

	if s.config.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: s.config.CookieEncryptionKey,
		}))
	}

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8375"
	}
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	limiterCfg := limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/static/")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	}
	if s.redis != nil {
		limiterCfg.Storage = cache.NewStorage(s.redis, "limiter:")
	}
	app.Use(limiter.New(limiterCfg))

	statics, err := fs.Sub(web.Static, "static")
	if err == nil {
		app.Use("/static", filesystem.New(filesystem.Config{
			Root:   http.FS(statics),
			MaxAge: 3600,
		}))
	}
}

// SetupRoutes registers operational routes first, then the request-scoped
// middleware and the application routes that depend on it.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Cafe Directory Metrics",
	}))

	app.Get("/api/swagger/*", swagger.HandlerDefault)

	if s.config.CSRFEnabled {
		csrfCfg := csrf.Config{
			KeyLookup:      "form:_csrf",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   s.config.CookieSecure,
			CookieHTTPOnly: true,
			Expiration:     time.Duration(s.config.SessionTTLMinutes) * time.Minute,
			ContextKey:     "csrf",
			KeyGenerator:   uuid.NewString,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/")
			},
		}
		if s.redis != nil {
			csrfCfg.Storage = cache.NewStorage(s.redis, "csrf:")
		}
		app.Use(csrf.New(csrfCfg))
	}

	app.Use(s.Transactional())
	app.Use(s.Identity())

	app.Get("/", s.Homepage)

	cafes := app.Group("/cafes")
	cafes.Get("/", s.ListCafes)
	cafes.Get("/add", s.AddCafeForm)
	cafes.Post("/add", s.AddCafe)
	cafes.Get("/:id<int>/edit", s.EditCafeForm)
	cafes.Post("/:id<int>/edit", s.EditCafe)
	cafes.Get("/:id<int>", s.CafeDetail)

	app.Get("/signup", s.SignupForm)
	app.Post("/signup", s.endpointLimit.Limit("signup", 5, 10*time.Minute), s.Signup)
	app.Get("/login", s.LoginForm)
	app.Post("/login", s.endpointLimit.Limit("login", 10, 5*time.Minute), s.Login)
	app.Post("/logout", s.Logout)

	app.Get("/profile", s.loginRequired(s.Profile))
	app.Get("/profile/edit", s.loginRequired(s.ProfileEditForm))
	app.Post("/profile/edit", s.loginRequired(s.ProfileEdit))

	api := app.Group("/api")
	api.Get("/likes", s.apiLoginRequired(s.LikeStatus))
	api.Post("/like", s.apiLoginRequired(s.Like))
	api.Post("/unlike", s.apiLoginRequired(s.Unlike))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so
// only the database decides readiness.
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

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app, err := s.NewApp()
	if err != nil {
		return err
	}
	s.app = app

	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
