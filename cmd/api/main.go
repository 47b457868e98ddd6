// Command api runs the Carthage Créance recovery API.
//
// @title        Carthage Créance Recovery API
// @version      1.0
// @description  Debt recovery case management: dossier validations, urgent tasks, notifications and the agent directory.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carthage-creance/recovery-api/internal/api"
	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/service"
	"github.com/carthage-creance/recovery-api/internal/infrastructure/config"
	mongodb "github.com/carthage-creance/recovery-api/internal/infrastructure/db/mongo"
	redisdb "github.com/carthage-creance/recovery-api/internal/infrastructure/db/redis"
	"github.com/carthage-creance/recovery-api/internal/infrastructure/poller"
	"github.com/carthage-creance/recovery-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty, nil)

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Repositories.
	userRepo := mongodb.NewUserRepository(db)
	validationRepo := mongodb.NewValidationRepository(db)
	tacheRepo := mongodb.NewTacheRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	dossierRepo := mongodb.NewDossierRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":         userRepo.EnsureIndexes,
		"validations":   validationRepo.EnsureIndexes,
		"taches":        tacheRepo.EnsureIndexes,
		"notifications": notificationRepo.EnsureIndexes,
		"dossiers":      dossierRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// Services.
	unreadCache := redisdb.NewUnreadCountCache(rdb)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	directoryService := service.NewDirectoryService(userRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, unreadCache, directoryService, log)
	tacheService := service.NewTacheService(tacheRepo, userRepo, directoryService, notificationService, log)
	validationService := service.NewValidationService(validationRepo, log)
	dossierService := service.NewDossierService(dossierRepo, log)

	// Dashboard snapshot poller.
	tachePoller := poller.New("taches", cfg.PollInterval, tacheRepo.FindAll, log)
	tachePoller.Subscribe(func(taches []domain.TacheUrgente) {
		log.Debug().Int("count", len(taches)).Msg("task snapshot refreshed")
	})
	tachePoller.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Validations:   validationService,
		Taches:        tacheService,
		Notifications: notificationService,
		Directory:     directoryService,
		Dossiers:      dossierService,
		TacheSnapshot: tachePoller,
		Mongo:         db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		Logger:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server gracefully stopped")
}
