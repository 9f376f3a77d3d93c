// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/catalog-backend/internal/admin"
	"github.com/carterperez-dev/templates/catalog-backend/internal/asset"
	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
	"github.com/carterperez-dev/templates/catalog-backend/internal/category"
	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/health"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
	"github.com/carterperez-dev/templates/catalog-backend/internal/product"
	"github.com/carterperez-dev/templates/catalog-backend/internal/server"
	"github.com/carterperez-dev/templates/catalog-backend/internal/user"
)

const (
	drainDelay    = 5 * time.Second
	purgeInterval = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.Setup(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"auto_migrate", cfg.Database.AutoMigrate,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "ES256",
		"key_id", tokens.KeyID(),
		"logout_policy", cfg.Auth.LogoutPolicy,
	)

	userSvc := user.NewService(user.NewRepository(db.DB))

	authSvc := auth.NewService(auth.NewRepository(db.DB), tokens, userSvc, cfg.Auth)
	authHandler := auth.NewHandler(authSvc)

	store := asset.NewDirStore(cfg.Storage.UploadDir)
	if err := store.EnsureDir(ctx); err != nil {
		return err
	}
	assets := asset.NewManager(store, logger)

	categorySvc := category.NewService(category.NewRepository(db.DB))
	productSvc := product.NewService(product.NewRepository(db.DB), categorySvc, assets, logger)

	productHandler := product.NewHandler(productSvc, asset.NewPolicy(cfg.Storage))
	categoryHandler := category.NewHandler(categorySvc).WithProducts(productHandler.ListByCategory)

	healthHandler := health.NewHandler(
		health.Probe{Name: "database", Checker: db},
		health.Probe{Name: "redis", Checker: redis},
		health.Probe{Name: "uploads", Checker: assets},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:      db.Stats,
		RedisStats:   redis.PoolStats,
		DBPing:       db.Ping,
		RedisPing:    redis.Ping,
		Users:        userSvc.Count,
		Categories:   categorySvc.Count,
		Products:     productSvc.Count,
		ActiveTokens: authSvc.CountActive,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Name:  "global",
			Limit: middleware.Every(
				cfg.RateLimit.Window,
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: isProbeOrPreflight,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", tokens.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	canWrite := middleware.RequireAbility(auth.AbilityCatalogWrite)

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:  "auth",
		Limit: middleware.Every(
			cfg.RateLimit.Window,
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthRequests,
		),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	})

	router.Group(func(r chi.Router) {
		r.Use(authLimiter.Handler)
		authHandler.RegisterRoutes(r, authenticator)
	})

	categoryHandler.RegisterRoutes(router, authenticator, canWrite)
	productHandler.RegisterRoutes(router, authenticator, canWrite)
	adminHandler.RegisterRoutes(router, authenticator, canWrite)
	asset.NewHandler(store).RegisterRoutes(router, cfg.Storage.PublicPath)

	if cfg.JWT.TokenExpire > 0 {
		go purgeExpiredTokens(ctx, authSvc, logger)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func purgeExpiredTokens(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired tokens failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired tokens", "count", n)
			}
		}
	}
}

func isProbeOrPreflight(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/.well-known/")
}
