package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/architect/mathquest/internal/common/database"
	"github.com/architect/mathquest/internal/handlers"
	"github.com/architect/mathquest/internal/services"
	"github.com/architect/mathquest/internal/store"
	"github.com/architect/mathquest/pkg/config"
	"github.com/architect/mathquest/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect database (SQLite for development, PostgreSQL for production)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire store and services
	dataStore := store.NewGormStore(db)
	userService := services.NewUserService(dataStore)
	curriculumService := services.NewCurriculumService(dataStore)
	progressService := services.NewProgressService(dataStore)

	router := handlers.NewRouter(userService, curriculumService, progressService)

	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting MathQuest server",
		zap.String("address", address),
		zap.String("env", cfg.Server.Env),
		zap.String("db", cfg.Database.Type),
	)

	if err := router.Run(address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
