package main

import (
	"context"
	"log"
	"os"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasklists/api/handler"
	"github.com/fastygo/tasklists/internal/config"
	"github.com/fastygo/tasklists/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/tasklists/internal/infrastructure/redis"
	"github.com/fastygo/tasklists/internal/infrastructure/storage"
	"github.com/fastygo/tasklists/internal/middleware"
	"github.com/fastygo/tasklists/internal/ratelimit"
	"github.com/fastygo/tasklists/internal/router"
	"github.com/fastygo/tasklists/internal/services/lifecycle"
	"github.com/fastygo/tasklists/internal/token"
	"github.com/fastygo/tasklists/pkg/httpcontext"
	"github.com/fastygo/tasklists/pkg/logger"
	authUC "github.com/fastygo/tasklists/usecase/auth"
	listUC "github.com/fastygo/tasklists/usecase/list"
	taskUC "github.com/fastygo/tasklists/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx := context.Background()
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	store, closeStore, err := storage.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store unavailable", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	manager.Register("store", closeStore)

	var redisClient *goRedis.Client
	if cfg.UsesRedis() {
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	limiter := newLimiter(cfg, redisClient, manager, zapLogger)

	mon := monitor.New(store, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		zapLogger.Fatal("token manager", zap.Error(err))
	}

	authUseCase := authUC.New(store.Clients(), tokens, zapLogger)
	listUseCase := listUC.New(store, zapLogger)
	taskUseCase := taskUC.New(store, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		List:   apiHandler.NewListHandler(listUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.JWTAuth(tokens, zapLogger))
	handler := middleware.Chain(r.Handler,
		middleware.AccessLog(zapLogger),
		middleware.CORS(cfg.HTTP.CORSOrigin),
		middleware.RateLimit(limiter, zapLogger),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
			zap.String("rate_limit", cfg.RateLimit.Backend))
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	if err := manager.Wait(appCtx); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
		_ = zapLogger.Sync()
		os.Exit(1)
	}
}

func newLimiter(cfg *config.Config, redisClient *goRedis.Client, manager *lifecycle.Manager, zapLogger *zap.Logger) ratelimit.Limiter {
	if cfg.RateLimit.Backend == config.LimiterRedis {
		return ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	limiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	janitor, err := ratelimit.NewJanitor(limiter, cfg.RateLimit.SweepInterval, zapLogger)
	if err != nil {
		zapLogger.Fatal("rate limit janitor", zap.Error(err))
	}
	janitor.Start()
	manager.Register("rate_limit_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})
	return limiter
}
