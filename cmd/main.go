package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron"

	"github.com/tonicwater/backend/internal/cache"
	"github.com/tonicwater/backend/internal/clients"
	"github.com/tonicwater/backend/internal/db"
	"github.com/tonicwater/backend/internal/handlers"
	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/middleware"
	"github.com/tonicwater/backend/internal/server"
	"github.com/tonicwater/backend/internal/services"
	"github.com/tonicwater/backend/internal/store"
	"github.com/tonicwater/backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	appEnv := utils.GetEnv("APP_ENV", "development", log)
	adminSecret := utils.GetEnv("ADMIN_SECRET", "", log)
	generationCron := utils.GetEnv("GENERATION_CRON", "", log)
	if adminSecret == "" {
		log.Warn("ADMIN_SECRET not set, admin surface will reject all requests")
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Stores
	log.Info("Setting up stores from main...")
	snapshots := store.NewSnapshotRepo(thePG, log)
	pairingStore := store.NewPairingStore(snapshots, log)
	articleStore := store.NewArticleStore(snapshots, log)
	taskStore := store.NewTaskStore(snapshots, log)

	// Cache
	responseCache := cache.New(log)
	defer responseCache.Close()

	// Clients
	log.Info("Setting up clients from main...")
	keywordClient, err := clients.NewDataForSEOClient(log)
	if err != nil {
		log.Warn("Keyword client unavailable, topic selection falls back to defaults", "error", err)
		keywordClient = nil
	}
	textgenClient, err := clients.NewTextGenClient(log)
	if err != nil {
		log.Warn("Text client unavailable, generation tasks will fail until configured", "error", err)
		textgenClient = nil
	}
	imagenClient, err := clients.NewImagenClient(log)
	if err != nil {
		log.Warn("Image client unavailable, articles will use the placeholder image", "error", err)
		imagenClient = nil
	}

	// Services
	generationService := services.NewGenerationService(log, taskStore, articleStore, keywordClient, textgenClient, imagenClient)
	generationService.StartWorker(context.Background())

	// Scheduled trigger
	if generationCron != "" {
		c := cron.New()
		if err := c.AddFunc(generationCron, func() {
			if _, err := generationService.Trigger(context.Background(), ""); err != nil {
				log.Error("Scheduled generation trigger failed", "error", err)
			}
		}); err != nil {
			log.Error("Invalid GENERATION_CRON expression", "cron", generationCron, "error", err)
			os.Exit(1)
		}
		c.Start()
		log.Info("Scheduled generation enabled", "cron", generationCron)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	pairingHandler := handlers.NewPairingHandler(log, pairingStore, responseCache)
	articleHandler := handlers.NewArticleHandler(log, articleStore)
	adminHandler := handlers.NewAdminHandler(log, articleStore, taskStore, generationService, responseCache)

	// Middleware
	adminAuth := middleware.NewAdminAuth(log, adminSecret)

	// Router
	log.Info("Setting up router from main...", "env", appEnv)
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		Cache:          responseCache,
		AdminAuth:      adminAuth,
		PairingHandler: pairingHandler,
		ArticleHandler: articleHandler,
		AdminHandler:   adminHandler,
	})

	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
