package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"restaurant-media-organizer/database/migrations"
	"restaurant-media-organizer/internal/api"
	"restaurant-media-organizer/internal/api/handlers"
	"restaurant-media-organizer/internal/config"
	"restaurant-media-organizer/internal/database"
	"restaurant-media-organizer/internal/library"
	"restaurant-media-organizer/internal/logging"
	"restaurant-media-organizer/internal/storage"
	"restaurant-media-organizer/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.Server.Env)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize Database
	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := migrations.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err), zap.String("provider", cfg.Storage.Provider))
	}

	wsManager := websocket.NewManager(logger)
	defer wsManager.Stop()

	media := library.NewService(db, store, wsManager, logger)
	h := handlers.NewHandler(media, wsManager, cfg.Storage.MaxUploadSize, logger)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Storage.MaxUploadSize
	api.SetupRoutes(router, h, cfg.JWT.Secret)

	// CORS must wrap the router so pre-flight requests skip auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     corsHandler.Handler(router),
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
