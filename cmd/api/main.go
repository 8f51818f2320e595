package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dglmedia/adops-backend/api/routes"
	"github.com/dglmedia/adops-backend/internal/config"
	"github.com/dglmedia/adops-backend/internal/handlers"
	"github.com/dglmedia/adops-backend/internal/repositories"
	mongorepo "github.com/dglmedia/adops-backend/internal/repositories/mongodb"
	"github.com/dglmedia/adops-backend/internal/services"
	"github.com/dglmedia/adops-backend/pkg/mongodb"
	"github.com/dglmedia/adops-backend/pkg/paygate"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// Load .env if present; environment variables win otherwise
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var deploymentRepo repositories.DeploymentRepository = mongorepo.NewDeploymentRepository(db)
	var adRepo repositories.AdRepository = mongorepo.NewAdRepository(db)
	var materialRepo repositories.MaterialRepository = mongorepo.NewMaterialRepository(db)
	var paymentRepo repositories.PaymentRepository = mongorepo.NewPaymentRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// External clients
	paygateClient := paygate.NewClient(cfg.Paygate.BaseURL, cfg.Paygate.APIKey, cfg.Paygate.MockAPI)

	// Services
	deploymentService := services.NewDeploymentService(deploymentRepo, adRepo, materialRepo)
	activationService := services.NewActivationService(paymentRepo, adRepo, materialRepo, deploymentService)
	paymentService := services.NewPaymentService(paymentRepo, adRepo, activationService, paygateClient)
	adService := services.NewAdService(adRepo, materialRepo)
	materialService := services.NewMaterialService(materialRepo)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		DeploymentHandler: handlers.NewDeploymentHandler(deploymentService, activationService),
		AdHandler:         handlers.NewAdHandler(adService),
		MaterialHandler:   handlers.NewMaterialHandler(materialService),
		PaymentHandler:    handlers.NewPaymentHandler(paymentService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// setupLogger installs a JSON slog handler at the configured level
func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
