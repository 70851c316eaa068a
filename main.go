package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "trade-journal/config"
	"trade-journal/internal/api"
	"trade-journal/internal/app"
	"trade-journal/observability"
	"trade-journal/repository"
	"trade-journal/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables before the logger so ENV from .env is
	// honored, then initialize logging before anything is logged.
	envErr := godotenv.Load()
	observability.InitLogger(os.Getenv("ENV") == "production")
	observability.InitMetrics()
	if envErr != nil {
		observability.Info("no .env file found, using environment variables")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	ctx := context.Background()

	if !cfg.HasDatabase() {
		observability.Fatal("DATABASE_URL is required")
	}
	repo, err := repository.NewRepository(ctx, cfg.Database.URL)
	if err != nil {
		observability.Fatal("failed to initialize database", "error", err)
	}
	defer repo.Close()

	if !cfg.HasIdentity() {
		observability.Fatal("IDENTITY_BASE_URL is required")
	}
	identity, err := services.NewIdentityService(cfg)
	if err != nil {
		observability.Fatal("failed to initialize identity service", "error", err)
	}

	// AI critique backend, OpenAI preferred, Bedrock as the fallback.
	// Missing credentials disable critiques instead of failing startup.
	var critique services.CritiqueServiceInterface
	if cfg.HasOpenAI() {
		openaiService, err := services.NewOpenAIService(cfg)
		if err != nil {
			observability.Fatal("failed to initialize OpenAI service", "error", err)
		}
		critique = services.NewCritiqueService(openaiService)
	} else if os.Getenv("AWS_ACCESS_KEY_ID") != "" || os.Getenv("AWS_PROFILE") != "" {
		bedrockService, err := services.NewBedrockService(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID)
		if err != nil {
			observability.Warn("failed to initialize Bedrock service, critiques disabled", "error", err)
		} else {
			critique = services.NewCritiqueService(bedrockService)
		}
	} else {
		observability.Warn("no AI credentials configured, trade critiques disabled")
	}

	application := app.New(repo, critique, cfg)
	handler := api.NewHandler(application, repo, cfg)
	router := api.NewRouter(handler, identity, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	shutdownDone := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		observability.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			observability.Error("shutdown failed", "error", err)
		}
		close(shutdownDone)
	}()

	observability.Info("server listening", "port", cfg.HTTP.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		observability.Fatal("server failed", "error", err)
	}
	<-shutdownDone
}
