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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"photomarket/internal/config"
	"photomarket/internal/database"
	"photomarket/internal/middleware"
	"photomarket/internal/modules/auth"
	"photomarket/internal/modules/booking"
	"photomarket/internal/modules/message"
	"photomarket/internal/modules/notification"
	"photomarket/internal/modules/payment"
	"photomarket/internal/modules/upload"
	jwtsvc "photomarket/internal/pkg/jwt"
	"photomarket/internal/pkg/logger"
	"photomarket/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	zl, err := logger.New(cfg.App.LogPath, cfg.App.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		zl.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)

	j := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL)

	notifHub := notification.NewHub()
	notifService := notification.NewService(notifRepo, notifHub)
	notifHandler := notification.NewHandler(notifService)
	streamHandler := notification.NewStreamHandler(notifHub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService, j)

	bookingService := booking.NewService(bookingRepo, userRepo, notifService)
	bookingHandler := booking.NewHandler(bookingService)

	wsHub := message.NewHub()
	messageService := message.NewService(messageRepo, bookingRepo, userRepo, notifService, wsHub)
	messageHandler := message.NewHandler(messageService, wsHub, zl)

	uploadService := upload.NewService(deliverableRepo, bookingRepo, cfg.Uploads.BaseDir, cfg.Uploads.StaticBase)
	uploadHandler := upload.NewHandler(uploadService)

	paymentService := payment.NewService(bookingRepo, userRepo, notifService)
	paymentHandler := payment.NewHandler(paymentService)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(zl))
	r.Use(middleware.CORS())

	r.Static(cfg.Uploads.StaticBase, cfg.Uploads.BaseDir)

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
			streamHandler.RegisterRoutes(protected)
			messageHandler.RegisterRoutes(protected)
			uploadHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	go func() {
		zl.Info("server listening", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	wsHub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("shutdown failed", zap.Error(err))
	}
}
