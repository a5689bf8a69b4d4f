package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jelajah-asia/travel-site/docs"
	"github.com/jelajah-asia/travel-site/internal/api/handler"
	"github.com/jelajah-asia/travel-site/internal/api/middleware"
	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const metricsSubsystem = "travel_http"

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Registry      ports.SessionRegistry
	Catalog       ports.CatalogService
	Feedback      ports.FeedbackService
	FeedbackQueue ports.FeedbackQueue
	Profiles      ports.ProfileService
	Files         handler.PublicFiles
	Checks        []handler.DependencyCheck

	CookieName   string
	SecureCookie bool
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))

	// --- Operational endpoints (no visitor session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)
	storageHandler := handler.NewStorageHandler(deps.Files)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/storage/v1/object/public/:bucket/*", storageHandler.Object)

	// --- Pages (one session store per visitor) ---
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, deps.Feedback, deps.Logger)
	contactHandler := handler.NewContactHandler(deps.FeedbackQueue, deps.Logger)
	authHandler := handler.NewAuthHandler()
	profileHandler := handler.NewProfileHandler(deps.Profiles)
	adminHandler := handler.NewAdminHandler(deps.Catalog)

	// Attached per route: unmatched paths must not mint a visitor store.
	visitor := middleware.Visitor(middleware.VisitorConfig{
		Registry:   deps.Registry,
		CookieName: deps.CookieName,
		Secure:     deps.SecureCookie,
	})

	e.GET("/", catalogHandler.Home, visitor)
	e.GET("/destinations", catalogHandler.List, visitor)
	e.GET("/destinations/:id", catalogHandler.Get, visitor)
	e.POST("/contact", contactHandler.Submit, visitor)

	e.GET("/auth/session", authHandler.Session, visitor)
	e.POST("/auth/register", authHandler.Register, visitor)
	e.POST("/auth/login", authHandler.Login, visitor)
	e.POST("/auth/logout", authHandler.Logout, visitor)

	profile := e.Group("/profile", visitor, middleware.RequireIdentity(), middleware.RefreshProfile())
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.POST("/avatar", profileHandler.UploadAvatar)

	admin := e.Group("/admin", visitor, middleware.RefreshProfile(), middleware.RBAC(domain.RoleAdmin))
	admin.GET("/destinations", adminHandler.List)
	admin.POST("/destinations", adminHandler.Create)
	admin.PUT("/destinations/:id", adminHandler.Update)
	admin.DELETE("/destinations/:id", adminHandler.Delete)

	return e
}
