package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/api"
	"profilehub-backend-go/internal/config"
	"profilehub-backend-go/internal/core"
	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/identity"
	"profilehub-backend-go/internal/middleware"
	"profilehub-backend-go/internal/storage"
)

func main() {
	// Load a local .env when present; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if strings.ToLower(appConfig.GinMode) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded and logger initialized")

	// Firebase Admin SDK: Firestore, Auth and the Storage bucket.
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.NewClients(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase clients", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth, Storage) initialized")

	// Platform adapters, constructed once and injected everywhere.
	profileRepo := db.NewFirestoreProfileRepository(clients.Firestore, zapLogger)
	blobStore := storage.NewGCSBlobStore(clients.Bucket, appConfig.StorageBucket, zapLogger)
	idp := identity.NewFirebaseProvider(appConfig.FirebaseWebAPIKey, clients.Auth, zapLogger)

	profileService := core.NewProfileService(idp, profileRepo, blobStore, zapLogger)
	zapLogger.Info("Core services initialized")

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, zapLogger, clients.Auth, idp, profileService, profileRepo)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
