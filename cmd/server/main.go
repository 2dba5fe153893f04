package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campusconnect/docs"
	"campusconnect/internal/auth"
	"campusconnect/internal/cache"
	"campusconnect/internal/config"
	"campusconnect/internal/content"
	"campusconnect/internal/db"
	"campusconnect/internal/handler"
	"campusconnect/internal/logger"
	"campusconnect/internal/model"
	"campusconnect/internal/reminder"
	"campusconnect/internal/repository"
	"campusconnect/internal/router"
	"campusconnect/internal/service"
	"campusconnect/internal/store"
)

const shutdownTimeout = 10 * time.Second

// @title CampusConnect API
// @version 1.0
// @description Campus event registry with registration, attendance check-in, reminders and certificates.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not up yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		zap.L().Fatal("open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	guard := store.NewGuard()

	// Initialize repositories
	eventRepo := repository.NewEventRepository(blobs)
	notificationRepo := repository.NewNotificationRepository(blobs)
	certificateRepo := repository.NewCertificateRepository(blobs)
	userRepo := repository.NewUserRepository(model.SeedUsers())

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	contentService := content.NewService(content.Unavailable{}, cacheClient)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	notificationService := service.NewNotificationService(notificationRepo, eventRepo, guard)
	certificateService := service.NewCertificateService(certificateRepo, guard)
	eventService := service.NewEventService(eventRepo, notificationService, certificateService, guard, contentService, cfg.GeofenceRadiusMeters)

	events, err := eventService.ListEvents(ctx, "")
	if err != nil {
		zap.L().Fatal("load events", zap.Error(err))
	}
	zap.L().Info("event registry ready", zap.String("backend", cfg.StoreBackend), zap.Int("events", len(events)))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	eventHandler := handler.NewEventHandler(eventService, contentService)
	meHandler := handler.NewMeHandler(notificationService, certificateService, eventService)
	adminHandler := handler.NewAdminHandler(eventService, notificationService, contentService)
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, authService, authHandler, eventHandler, meHandler, adminHandler, userHandler)

	scheduler := reminder.NewScheduler(notificationService, userService, cfg.ReminderScanInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	zap.L().Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("server start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
}
