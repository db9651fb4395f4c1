package main

import (
	"context"
	"os"

	"dealdesk/server/config"
	"dealdesk/server/internal/analyst"
	"dealdesk/server/internal/api"
	"dealdesk/server/internal/database"
	"dealdesk/server/internal/processor"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}

	assumptions, err := config.LoadAssumptions(cfg.AssumptionsFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load market assumptions")
	}
	logger.WithField("mode", assumptions.Mode).Info("Loaded market assumptions")

	db, err := database.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	if cfg.SeedCatalog {
		if err := db.SeedListings(database.DemoCatalog()); err != nil {
			logger.WithError(err).Fatal("Failed to seed listing catalog")
		}
	}
	if count, err := db.CountListings(); err == nil {
		logger.Infof("Listing catalog holds %d properties", count)
	}

	var generator analyst.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		gen, err := analyst.NewGeminiGenerator(context.Background(), cfg.LLM.GeminiAPIKey, cfg.LLM.Model)
		if err != nil {
			logger.WithError(err).Error("Failed to initialize Gemini, memos will be rule-based")
		} else {
			generator = gen
			logger.WithField("model", cfg.LLM.Model).Info("Gemini narrative enabled")
		}
	}

	an := analyst.New(generator, cfg.LLM.Timeout, logger)
	proc := processor.NewBatchProcessor(cfg, assumptions, logger)
	handler := api.NewHandler(db, assumptions, an, proc, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, cfg.AllowedOrigins)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
