package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/skillforge-app/skillforge-backend/internal/api"
	"github.com/skillforge-app/skillforge-backend/internal/config"
	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	"github.com/skillforge-app/skillforge-backend/internal/logger"
	"github.com/skillforge-app/skillforge-backend/internal/ratelimit"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/services"
	"github.com/skillforge-app/skillforge-backend/internal/skillblend"
)

const sweepInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Table de combinaisons figée au démarrage: un chevauchement de
	// règles empêche le serveur de démarrer
	blends, err := skillblend.NewResolver(skillblend.DefaultRules())
	if err != nil {
		logger.Error("Invalid skill blend rules: %v", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter.StartSweeper(ctx, sweepInterval)

	cloudinarySvc, err := services.NewCloudinaryService(cfg)
	if err != nil {
		logger.Warning("Cloudinary disabled: %v", err)
	}

	// Initialize routes
	router := api.SetupRouter(api.Deps{
		Limiter:     limiter,
		Deduper:     dedupe.New(),
		Cache:       respcache.New(),
		Blends:      blends,
		Cloudinary:  cloudinarySvc,
		Development: cfg.IsDevelopment(),
	})

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
