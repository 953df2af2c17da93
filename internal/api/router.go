package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cargolink/cargo-portal/docs"
	"github.com/cargolink/cargo-portal/internal/api/handler"
	"github.com/cargolink/cargo-portal/internal/api/middleware"
	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
	"github.com/cargolink/cargo-portal/internal/core/service"
	"github.com/cargolink/cargo-portal/internal/infrastructure/config"
	mongodb "github.com/cargolink/cargo-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/cargolink/cargo-portal/internal/infrastructure/db/redis"
	"github.com/cargolink/cargo-portal/pkg/logger"
)

// NewRouter builds the Echo instance with all routes registered, plus the
// metrics, swagger and health endpoints that depend on live backends.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config) *echo.Echo {
	e := newRouter(routerDeps{
		repo:     mongodb.NewAccountRepository(db),
		sessions: redisdb.NewSessionStore(rdb),
		cfg:      cfg,
	})

	// Prometheus HTTP stats register with the default registry, so this
	// middleware attaches only on the production path.
	e.Use(echoprometheus.NewMiddleware("cargo_portal"))
	e.GET("/metrics", echoprometheus.NewHandler())

	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	return e
}

// routerDeps carries the port implementations the route tree needs. Tests
// supply in-memory stubs here.
type routerDeps struct {
	repo     ports.AccountRepository
	sessions ports.SessionStore
	cfg      *config.Config
}

func newRouter(deps routerDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.Session(deps.cfg.JWTSecret, deps.sessions))

	// --- Dependencies ---
	accountService := service.NewAccountService(deps.repo, deps.sessions, deps.cfg.JWTSecret, deps.cfg.SessionTTL(), deps.cfg.BcryptCost)
	directoryService := service.NewDirectoryService(deps.repo)

	authHandler := handler.NewAuthHandler(accountService, deps.sessions, deps.cfg.SessionTTL())
	dashboardHandler := handler.NewDashboardHandler(directoryService, deps.sessions)
	adminHandler := handler.NewAdminHandler(directoryService)

	// --- Public pages and auth flow ---
	e.GET("/", authHandler.Landing)
	e.GET("/auth/", authHandler.AuthPage)
	e.GET("/login/", authHandler.LoginPage)
	e.POST("/login/", authHandler.Login)
	e.GET("/register/", authHandler.RegisterPage)
	e.POST("/register/", authHandler.Register)
	e.POST("/logout/", authHandler.Logout, middleware.RequireSession())

	// --- Dashboards ---
	dashboard := e.Group("/dashboard", middleware.RequireSession())
	dashboard.GET("/", dashboardHandler.Dispatch)
	dashboard.GET("/client/", dashboardHandler.Client, middleware.RequireRole(deps.sessions, domain.RoleClient))
	dashboard.GET("/driver/", dashboardHandler.Driver, middleware.RequireRole(deps.sessions, domain.RoleDriver))
	dashboard.GET("/clearance-agent/", dashboardHandler.ClearanceAgent, middleware.RequireRole(deps.sessions, domain.RoleClearanceAgent))
	dashboard.GET("/admin/", dashboardHandler.Admin, middleware.RequireRole(deps.sessions, domain.RoleAdmin))

	// --- Administrative tooling ---
	admin := e.Group("/admin/accounts",
		middleware.RequireSession(),
		middleware.RequireRole(deps.sessions, domain.RoleAdmin),
		middleware.RequireStaff(deps.repo),
	)
	admin.GET("/", adminHandler.ListAccounts)
	admin.POST("/actions/", adminHandler.BulkActions)

	return e
}
