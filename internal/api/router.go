package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/lanternsec/facegate/internal/api/docs"
	"github.com/lanternsec/facegate/internal/api/handler"
	"github.com/lanternsec/facegate/internal/api/middleware"
	"github.com/lanternsec/facegate/internal/audit"
	"github.com/lanternsec/facegate/internal/config"
	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/enroll"
	"github.com/lanternsec/facegate/internal/faceindex"
	"github.com/lanternsec/facegate/internal/match"
	"github.com/lanternsec/facegate/internal/metrics"
	"github.com/lanternsec/facegate/internal/policy"
	"github.com/lanternsec/facegate/internal/repository"
	"github.com/lanternsec/facegate/internal/service"
	"github.com/lanternsec/facegate/internal/session"
)

// Dependencies carries everything the router needs to build the service
// graph. DB may be nil in tests that only exercise unauthenticated routes.
type Dependencies struct {
	Config   *config.Config
	Policy   *policy.Policy
	Provider detector.Provider
	Index    *faceindex.Index
	DB       *pgxpool.Pool
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Facegate API",
		BodyLimit:    64 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Prometheus scrape endpoint
	r.app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil || r.deps.DB == nil {
		return
	}

	cfg := r.deps.Config
	pol := r.deps.Policy

	// Repositories
	userRepo := repository.NewUserRepository(r.deps.DB)
	faceRepo := repository.NewFaceRepository(r.deps.DB)
	eventRepo := repository.NewAuthEventRepository(r.deps.DB)
	statsRepo := repository.NewStatsRepository(r.deps.DB)

	// Services
	jwtService := session.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	trail := audit.NewTrail(eventRepo, r.logger)
	searcher := match.NewSearcher(pol)
	curator := enroll.NewCurator(faceRepo, pol)

	authService := service.NewAuthService(
		userRepo, faceRepo, searcher, r.deps.Provider, jwtService, trail,
		cfg.MaxFailedLogins, cfg.LockoutDuration,
	)
	enrollService := service.NewEnrollService(
		userRepo, faceRepo, curator, r.deps.Index, r.deps.Provider, pol,
	)
	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	statsService := service.NewStatsService(statsRepo, eventRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, r.logger)
	enrollHandler := handler.NewEnrollHandler(enrollService, r.logger)
	userHandler := handler.NewUserHandler(userService, r.logger)
	statsHandler := handler.NewStatsHandler(statsService, r.logger)

	v1 := r.app.Group("/v1")

	// Login endpoints are the brute-force surface: throttle per client IP
	// before any credential or face work happens.
	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:    cfg.AuthRatePerMin,
		Window: time.Minute,
	})

	authGroup := v1.Group("/auth", r.rateLimiter.Handler())
	authGroup.Post("/login", authHandler.LoginPassword)
	authGroup.Post("/face", authHandler.LoginFace)
	authGroup.Post("/face/image", authHandler.LoginFaceImage)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Account creation is open; everything below requires a session.
	v1.Post("/users", userHandler.Register)

	sessionAuth := middleware.SessionAuth(jwtService)

	v1.Get("/users/me", sessionAuth, userHandler.Me)
	v1.Get("/auth/events", sessionAuth, statsHandler.RecentEvents)

	faces := v1.Group("/faces", sessionAuth)
	faces.Post("/enroll", enrollHandler.Enroll)
	faces.Post("/enroll/images", enrollHandler.EnrollImages)
	faces.Get("/", enrollHandler.Status)
	faces.Delete("/", enrollHandler.Delete)

	adminGroup := v1.Group("/admin", sessionAuth, middleware.RequireAdmin())
	adminGroup.Get("/stats", statsHandler.Overview)
	adminGroup.Get("/users", userHandler.List)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
