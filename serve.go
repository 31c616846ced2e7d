package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/auth"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/config"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/db"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/logging"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/server"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	files, uploadDir, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	log.WithField("backend", cfg.Media.Backend).Info("media storage ready")

	limiter, closeLimiters := newLimiters(ctx, cfg, log)
	defer closeLimiters()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := server.NewRouter(server.Options{
		Config:    cfg,
		Store:     store,
		Files:     files,
		Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn),
		Limiter:   limiter,
		Registry:  reg,
		Log:       log,
		UploadDir: uploadDir,
	})
	return server.Run(ctx, ":"+cfg.Port, handler, log)
}

// openStore connects and makes sure the schema exists.
func openStore(ctx context.Context, cfg config.Config) (*db.Store, error) {
	store, err := db.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// openStorage returns the configured media backend and, for the disk
// backend, the directory to serve under /uploads. Disk URLs are absolute,
// rooted at PUBLIC_URL.
func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, string, error) {
	if cfg.Media.Backend == "s3" {
		s3, err := storage.NewS3(ctx, cfg.Media)
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	}
	disk, err := storage.NewDisk(cfg.Media.UploadDir, cfg.PublicURL+"/uploads")
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Root(), nil
}

const redisKeyPrefix = "kapptech:ratelimit"

// newLimiters builds rate limiters backed by redis when REDIS_URL is set and
// reachable, and by process memory otherwise.
func newLimiters(ctx context.Context, cfg config.Config, log *logrus.Logger) (server.LimiterFunc, func()) {
	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("rate limiting backed by redis")
			return func(_ string, limit int, window time.Duration) middleware.Limiter {
				return middleware.NewDistributedRateLimiter(client, limit, window, redisKeyPrefix)
			}, func() { client.Close() }
		}
		log.WithError(err).Warn("redis unavailable, using in-memory rate limiting")
	}

	var limiters []*middleware.RateLimiter
	return func(_ string, limit int, window time.Duration) middleware.Limiter {
		l := middleware.NewRateLimiter(limit, window)
		limiters = append(limiters, l)
		return l
	}, func() {
		for _, l := range limiters {
			l.Stop()
		}
	}
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
