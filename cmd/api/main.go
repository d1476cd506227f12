package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"workforce-portal/configs"
	v1 "workforce-portal/internal/api/v1"
	"workforce-portal/internal/auth"
	"workforce-portal/internal/config"
	"workforce-portal/internal/middleware"
	"workforce-portal/internal/repository"
	myws "workforce-portal/internal/websocket"
	"workforce-portal/pkg/crypto"
	"workforce-portal/pkg/database"
	"workforce-portal/pkg/logger"
)

func main() {
	cfg := configs.LoadConfig()

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		panic(err)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application",
		zap.String("time", time.Now().Format(time.RFC3339)),
		zap.String("store", cfg.StoreDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.ErrorLogger.Error("Application stopped with error", zap.Error(err))
		logger.SyncLoggers()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg configs.Config) error {
	s, err := database.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close(context.Background())
	logger.SystemLogger.Info("Store connected", zap.String("driver", cfg.StoreDriver))

	if err := repository.Migrate(ctx, s); err != nil {
		return err
	}

	var sealer repository.Sealer
	if cfg.DocumentKey != "" {
		cipher, err := crypto.NewCipher(cfg.DocumentKey)
		if err != nil {
			return err
		}
		sealer = cipher
		logger.SystemLogger.Info("Document encryption enabled")
	}

	limiterCfg := limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
	}
	if cfg.RedisHost != "" {
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		limiterCfg.Storage = database.NewLimiterStorage(client, "limiter:")
		logger.SystemLogger.Info("Rate limiter backed by Redis")
	}

	hub := myws.NewHub()
	go hub.Run(ctx)

	deps := config.NewDependencies(s, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), sealer, hub)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.JSONErrorHandler})
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiterCfg))

	v1.RegisterRoutes(app, deps)

	errc := make(chan error, 1)
	go func() {
		logger.SystemLogger.Info("Application ready", zap.Int("port", cfg.Port))
		errc <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.SystemLogger.Info("Shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}
