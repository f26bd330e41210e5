package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/pata-backend/internal/config"
	"github.com/ignatzorin/pata-backend/internal/db"
	"github.com/ignatzorin/pata-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/pata-backend/internal/http/handlers"
	"github.com/ignatzorin/pata-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/pata-backend/internal/http/router"
	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/mailer"
	"github.com/ignatzorin/pata-backend/internal/metrics"
	"github.com/ignatzorin/pata-backend/internal/service"
	"github.com/ignatzorin/pata-backend/internal/storage"
	"github.com/ignatzorin/pata-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: error al cargar la configuración: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}
	lg := logger.Get()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer st.close()

	// Redis необязателен: без него счётчики rate limit живут в памяти процесса.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				lg.WithError(err).Warn("main: error al cerrar redis")
			}
		}()
		st.checks["redis"] = httpHandlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	rateLimitStore, err := middleware.NewRateLimitStore(redisClient)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var mail service.Mailer = &mailer.LogMailer{Logger: lg}
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	}

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, "/media", cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: no se pudo preparar el almacenamiento de archivos: %v", err)
	}

	runner := goroutine.NewRecoveryHandler(lg)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Сервисы.
	cache := service.NewCacheService()
	defer cache.Close()

	authService := service.NewAuthService(st.users, tokenManager)
	notificationService := service.NewNotificationService(st.notifications)
	foundationService := service.NewFoundationService(st.foundations)
	mediaService := service.NewMediaService(st.media, photoStorage)
	seedService := service.NewSeedService(st.users, st.listings, st.foundations)

	// Вебсокеты.
	hub := ws.NewHub(ctx, m)
	hub.SetNotificationSaver(notificationService)
	hub.SetRunner(runner)
	go hub.Run()

	listingService := service.NewListingService(st.listings, st.users, mail, hub, runner, m)
	listingService.SetMailTimeout(cfg.SMTP.Timeout)
	listingService.SetCache(cache)

	// HTTP хэндлеры.
	deps := httpRouter.Deps{
		Auth:           httpHandlers.NewAuthHandler(authService),
		Listings:       httpHandlers.NewListingHandler(listingService),
		Admin:          httpHandlers.NewAdminHandler(listingService),
		Foundations:    httpHandlers.NewFoundationHandler(foundationService),
		Notifications:  httpHandlers.NewNotificationHandler(notificationService),
		Media:          httpHandlers.NewMediaHandler(mediaService),
		WS:             httpHandlers.NewWSHandler(hub, authService, cfg.AllowedOrigins),
		Health:         httpHandlers.NewHealthHandler(st.checks),
		Authenticator:  authService,
		RateLimitStore: rateLimitStore,
		Metrics:        m,
		Gatherer:       registry,
	}
	if cfg.Env == "development" {
		deps.Seed = httpHandlers.NewSeedHandler(seedService)
	}

	engine := httpRouter.SetupRouter(cfg, deps)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.WithError(err).Error("main: error al detener el servidor http")
		}
	}()

	lg.WithField("port", cfg.HTTPPort).WithField("storage", cfg.StorageDriver).Info("main: servidor HTTP iniciado")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: el servidor terminó con error: %v", err)
	}
}
