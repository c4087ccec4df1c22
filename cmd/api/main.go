package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/internal/ai"
	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/handler"
	authHandler "github.com/healthmate/healthmate-api/internal/handler/auth"
	familyHandler "github.com/healthmate/healthmate-api/internal/handler/familymember"
	fileHandler "github.com/healthmate/healthmate-api/internal/handler/medicalfile"
	vitalsHandler "github.com/healthmate/healthmate-api/internal/handler/vitals"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	"github.com/healthmate/healthmate-api/internal/router"
	authService "github.com/healthmate/healthmate-api/internal/service/auth"
	familyService "github.com/healthmate/healthmate-api/internal/service/familymember"
	fileService "github.com/healthmate/healthmate-api/internal/service/medicalfile"
	vitalsService "github.com/healthmate/healthmate-api/internal/service/vitals"
	"github.com/healthmate/healthmate-api/internal/storage"
	"github.com/healthmate/healthmate-api/pkg/auth"
	"github.com/healthmate/healthmate-api/pkg/logger"
)

func main() {
	// Load configuration; missing required settings abort startup.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.New(&logger.Config{
		Level:  logger.InfoLevel,
		Pretty: cfg.Server.Env == "development",
	})
	log.Logger = appLog

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	memberRepo := postgres.NewFamilyMemberRepository(db)
	fileRepo := postgres.NewMedicalFileRepository(db)
	insightRepo := postgres.NewInsightRepository(db)
	vitalsRepo := postgres.NewVitalsRepository(db)

	// Object storage: a missing bucket is tolerated at startup and rejected
	// per upload request.
	store, err := storage.NewGCSStore(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	if !store.Configured() {
		log.Warn().Msg("object storage not configured, file uploads will be rejected")
	}

	// Report analysis: without an API key the analyzer degrades to its
	// fallback result instead of blocking the rest of the API.
	var generator ai.Generator
	if cfg.Gemini.APIKey != "" {
		generator, err = ai.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
	} else {
		log.Warn().Msg("gemini API key not configured, report analysis will use fallback results")
	}
	analyzer := ai.NewAnalyzer(generator, cfg.Gemini.Model, appLog)

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	authSvc := authService.NewService(userRepo, jwtSvc)
	familySvc := familyService.NewService(memberRepo)
	fileSvc := fileService.NewService(fileRepo, insightRepo, memberRepo, store, analyzer, appLog)
	vitalsSvc := vitalsService.NewService(vitalsRepo)

	// Initialize handlers
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc, cfg.JWT.Expiry, cfg.Server.Env == "production")
	familyH := familyHandler.NewHandler(familySvc)
	fileH := fileHandler.NewHandler(fileSvc)
	vitalsH := vitalsHandler.NewHandler(vitalsSvc)

	// Setup router
	r := router.NewRouter(cfg, authSvc, h, authH, familyH, fileH, vitalsH)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
