package main

import (
	"context"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"campusconnect/internal/config"
	"campusconnect/internal/db"
	"campusconnect/internal/logger"
	"campusconnect/internal/repository"
	"campusconnect/internal/service"
	"campusconnect/internal/store"
)

// seed restores the default events in the configured store and clears every
// notification and certificate.
func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.Environment); err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	zap.L().Info("starting seed", zap.String("backend", cfg.StoreBackend))

	blobs, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		zap.L().Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	guard := store.NewGuard()
	eventRepo := repository.NewEventRepository(blobs)
	eventService := service.NewEventService(
		eventRepo,
		service.NewNotificationService(repository.NewNotificationRepository(blobs), eventRepo, guard),
		service.NewCertificateService(repository.NewCertificateRepository(blobs), guard),
		guard,
		nil,
		cfg.GeofenceRadiusMeters,
	)

	events, err := eventService.ResetAll(ctx)
	if err != nil {
		zap.L().Fatal("reset registry", zap.Error(err))
	}

	zap.L().Info("seed completed", zap.Int("events", len(events)))
	for _, event := range events {
		zap.L().Info("seeded event", zap.String("id", event.ID), zap.String("title", event.Title))
	}
}
