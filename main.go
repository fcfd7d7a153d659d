package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/emika-opensource/marketing-manager/handlers"
	"github.com/emika-opensource/marketing-manager/internal/config"
	"github.com/emika-opensource/marketing-manager/internal/generation"
	"github.com/emika-opensource/marketing-manager/internal/influencers"
	"github.com/emika-opensource/marketing-manager/internal/jobs"
	"github.com/emika-opensource/marketing-manager/internal/scheduler"
	"github.com/emika-opensource/marketing-manager/internal/settings"
	"github.com/emika-opensource/marketing-manager/internal/storage"
	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
	"github.com/emika-opensource/marketing-manager/pkg/metrics"
	"github.com/emika-opensource/marketing-manager/pkg/middleware"
)

// maxBodyBytes matches the dashboard's largest uploads (inline images).
const maxBodyBytes = 50 << 20

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s redis=%v minio=%v fal_key_env=%v",
		cfg.Store.Backend, cfg.Redis.Addr() != "", cfg.MinIO.Enabled(), cfg.Generation.FalKey != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = b.Close() }()
	st := store.New(b)

	settingsSvc := settings.NewService(st, cfg.Generation.FalKey)

	httpClient := &http.Client{Timeout: cfg.Generation.HTTPTimeout}
	gen := generation.NewClient(
		generation.WithHTTPClient(httpClient),
		generation.WithEndpoints(cfg.Generation.ImageEndpoint, cfg.Generation.VideoEndpoint),
	)

	runnerOpts := []jobs.Option{jobs.WithWorkers(cfg.Generation.Workers, cfg.Generation.QueueSize)}
	var artifacts handlers.ArtifactLinker
	if cfg.MinIO.Enabled() {
		ms, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("artifact mirroring disabled: %v", err)
		} else {
			runnerOpts = append(runnerOpts, jobs.WithMirror(ms))
			artifacts = ms
			logger.Infof("artifact mirroring enabled: bucket=%s", cfg.MinIO.Bucket)
		}
	}
	runner := jobs.NewRunner(st, gen, settingsSvc.FalKey, runnerOpts...)
	runner.Start(ctx)
	defer runner.Stop()

	sched, err := scheduler.New(st, cfg.Metrics.RefreshSchedule)
	if err != nil {
		logger.Warnf("gauge refresh disabled: %v", err)
	} else {
		sched.Start()
		defer sched.Stop()
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(), middleware.BodyLimit(maxBodyBytes))

	checks := map[string]handlers.Check{"store": b.Ping}

	// Redis for the shared rate limiter when configured
	var limiterRedis *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
		limiterRedis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := limiterRedis.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis for rate limiting (%s): %v", cfg.Redis.Addr(), err)
		}
		defer func() { _ = limiterRedis.Close() }()
		checks["redis"] = func(ctx context.Context) error { return limiterRedis.Ping(ctx).Err() }
	}
	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		if limiterRedis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			api.Use(middleware.RedisRateLimitMiddleware(limiterRedis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handlers.NewAPI(st, settingsSvc, influencers.NewService(st), runner, artifacts).Mount(api)

	handlers.RegisterHealth(r, startTime, checks)
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Marketing Command Center running on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("server shutdown: %v", err)
	}
}
