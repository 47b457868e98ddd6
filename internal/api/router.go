package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carthage-creance/recovery-api/internal/api/handler"
	"github.com/carthage-creance/recovery-api/internal/api/middleware"
	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
	"github.com/carthage-creance/recovery-api/internal/infrastructure/poller"
)

// Dependencies carries everything the router needs. Services are built in
// main so the pollers and the HTTP layer share the same instances.
type Dependencies struct {
	Auth          ports.AuthService
	Validations   ports.ValidationService
	Taches        ports.TacheService
	Notifications ports.NotificationService
	Directory     ports.DirectoryService
	Dossiers      ports.DossierService
	TacheSnapshot *poller.Poller[domain.TacheUrgente]

	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("carthage"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	validationHandler := handler.NewValidationHandler(deps.Validations)
	tacheHandler := handler.NewTacheHandler(deps.Taches, deps.TacheSnapshot)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	userHandler := handler.NewUserHandler(deps.Directory)
	dossierHandler := handler.NewDossierHandler(deps.Dossiers)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	auth := middleware.Auth(deps.JWTSecret)

	// Probes, metrics, docs. No auth required.
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	api := e.Group("/api", auth)

	// Dossier validation workflow. Decisions are restricted to the
	// validation allow-list; submission is open to any authenticated user.
	validations := api.Group("/validation/dossiers")
	validations.POST("", validationHandler.Create)
	validations.GET("", validationHandler.List)
	validations.GET("/stats", validationHandler.Stats)
	validations.GET("/agent/:agentId", validationHandler.ByAgent)
	validations.GET("/chef/:chefId", validationHandler.ByChef)
	validations.GET("/statut/:statut", validationHandler.ByStatut)
	validations.GET("/:id", validationHandler.Get)
	validations.PUT("/:id/valider", validationHandler.Valider, middleware.Validators())
	validations.PUT("/:id/rejeter", validationHandler.Rejeter, middleware.Validators())
	validations.PUT("/:id/remettre-en-attente", validationHandler.RemettreEnAttente, middleware.Validators())
	validations.DELETE("/:id", validationHandler.Delete, middleware.Validators())

	// Urgent tasks. Assignment is a chef action; reading and finishing are
	// open to any authenticated user.
	taches := api.Group("/taches-urgentes")
	taches.POST("", tacheHandler.Create, middleware.Chefs())
	taches.POST("/groupe", tacheHandler.AssignerGroupe, middleware.Chefs())
	taches.POST("/agents/:chefId", tacheHandler.AssignerAgentsDuChef, middleware.Chefs())
	taches.POST("/tous", tacheHandler.AssignerTous, middleware.Chefs())
	taches.GET("", tacheHandler.List)
	taches.GET("/snapshot", tacheHandler.Snapshot)
	taches.GET("/en-retard", tacheHandler.EnRetard)
	taches.GET("/:id", tacheHandler.Get)
	taches.PUT("/:id/terminer", tacheHandler.Terminer)
	taches.PUT("/:id", tacheHandler.Update, middleware.Chefs())
	taches.DELETE("/:id", tacheHandler.Delete, middleware.Chefs())

	notifications := api.Group("/notifications")
	notifications.POST("", notificationHandler.Send)
	notifications.POST("/groupe", notificationHandler.SendGroupe)
	notifications.POST("/agents/:chefId", notificationHandler.SendAgentsDuChef)
	notifications.POST("/tous", notificationHandler.SendTous, middleware.Chefs())
	notifications.GET("", notificationHandler.Mine)
	notifications.GET("/non-lues/count", notificationHandler.UnreadCount)
	notifications.GET("/types-autorises", notificationHandler.AllowedTypes)
	notifications.PUT("/lues", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/lue", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.Delete)

	users := api.Group("/users")
	users.GET("", userHandler.List, middleware.Chefs())
	users.GET("/chef/:chefId/agents", userHandler.AgentsDuChef, middleware.Chefs())

	api.POST("/creanciers", dossierHandler.CreateCreancier)
	api.GET("/creanciers", dossierHandler.ListCreanciers)
	api.POST("/debiteurs", dossierHandler.CreateDebiteur)
	api.GET("/debiteurs", dossierHandler.ListDebiteurs)
	api.POST("/dossiers", dossierHandler.CreateDossier)
	api.GET("/dossiers", dossierHandler.ListDossiers)
	api.GET("/dossiers/:id", dossierHandler.GetDossier)

	return e
}
