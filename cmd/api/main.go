// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/infrastructure/messaging/kafka"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
	"github.com/your-org/storefront-backend/internal/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg)

	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	images, err := storage.NewImageResolver(ctx, cfg)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to configure image storage")
	}

	emailService, err := email.NewEmailService(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure email")
	}

	publisher := kafka.NewEventPublisher(cfg, log)
	defer publisher.Close()

	log.Info("✅ All systems operational!")

	server := http.NewServer(cfg, http.Dependencies{
		DB:        db,
		Redis:     redisClient,
		Publisher: publisher,
		Email:     emailService,
		Images:    images,
	}, log)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("✅ Server shutdown completed")
}
