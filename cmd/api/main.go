package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/service-scheduler/internal/db"
	"github.com/BruksfildServices01/service-scheduler/internal/handlers"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/logging"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/payment"
	"github.com/BruksfildServices01/service-scheduler/internal/routes"
	"github.com/BruksfildServices01/service-scheduler/internal/telemetry"
	"github.com/BruksfildServices01/service-scheduler/internal/validators"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.ServiceName)

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}

	db := dbpkg.NewDB(cfg)

	if err := validators.Register(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	deps := routes.Deps{
		Audit: audit.NewDispatcher(audit.New(db)),
		Ready: []handlers.ReadyCheck{{
			Name: "database",
			Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}},
	}

	var redisClient *redis.Client
	if cfg.LockBackend == config.LockRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		redisLocker := lock.NewRedisLocker(redisClient, cfg.LockTTL)
		deps.Locker = redisLocker
		deps.Ready = append(deps.Ready, handlers.ReadyCheck{Name: "redis", Check: redisLocker.Ping})
	}

	if cfg.MercadoPagoAccessToken != "" {
		verifier, err := payment.NewMercadoPagoVerifier(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Fatalf("failed to configure mercadopago: %v", err)
		}
		deps.Verifier = verifier
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	routes.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr(), "lock_backend", cfg.LockBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := deps.Audit.Close(shutdownCtx); err != nil {
		logger.Error("audit drain", "err", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close", "err", err)
		}
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("telemetry shutdown", "err", err)
	}
}
