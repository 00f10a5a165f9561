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

	"export-readiness/internal/config"
	"export-readiness/internal/db"
	apihttp "export-readiness/internal/http"
	"export-readiness/internal/repository"
	"export-readiness/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	companyRepo := repository.NewPgCompanyRepository(pool)
	classificationRepo := repository.NewPgClassificationRepository(pool)
	settingsRepo := repository.NewPgSettingsRepository(pool)

	regionCache := service.NewMemoryRegionCountCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory region cache", zap.Error(err))
		} else {
			regionCache = service.NewRedisRegionCountCache(redisClient)
		}
		cancel()
	}

	settingsSvc := service.NewSettingsService(logger, settingsRepo)
	if _, err := settingsSvc.CategoryThresholds(ctx); err != nil {
		logger.Warn("category thresholds not usable at startup", zap.Error(err))
	}
	classificationSvc := service.NewClassificationService(
		logger,
		companyRepo,
		classificationRepo,
		settingsSvc,
		service.NewScoringEngine(cfg.ActivityLookbackMonths),
	)
	densitySvc := service.NewDensityService(logger, companyRepo, settingsSvc, regionCache, cfg.RegionCountCacheTTL)

	var adminGuard gin.HandlerFunc
	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	switch {
	case jwtSvc.Enabled():
		adminGuard = apihttp.AdminAuthMiddleware(jwtSvc)
	case cfg.IsDevelopment():
		logger.Warn("jwt secret not configured, admin routes are open in development")
	default:
		logger.Warn("jwt secret not configured, admin routes will reject requests")
		adminGuard = apihttp.AdminAuthMiddleware(jwtSvc)
	}

	router := apihttp.NewRouter(
		logger,
		adminGuard,
		apihttp.NewClassificationHandler(logger, classificationSvc, cfg.ReclassifyWorkers),
		apihttp.NewSettingsHandler(logger, settingsSvc),
		apihttp.NewDensityHandler(logger, densitySvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
