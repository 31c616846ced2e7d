package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/config"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/storage"
)

func TestOpenStorageDiskURLsUsePublicURL(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	cfg := config.Config{
		PublicURL: "https://api.kapptech.example",
		Media:     config.MediaConfig{Backend: "disk", UploadDir: root},
	}

	files, dir, err := openStorage(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, root, dir)
	require.IsType(t, &storage.Disk{}, files)

	url, err := files.Save(context.Background(), "image/logo.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://api.kapptech.example/uploads/image/logo.png", url)
}

func TestRedisLimiterKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	log, hook := logtest.NewNullLogger()
	cfg := config.Config{RedisURL: "redis://" + mr.Addr()}

	limiter, closeLimiters := newLimiters(context.Background(), cfg, log)
	defer closeLimiters()

	l := limiter("login", 1, time.Minute)
	require.IsType(t, &middleware.DistributedRateLimiter{}, l)
	allowed, err := l.Allow(context.Background(), "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.Equal(t, []string{"kapptech:ratelimit:ip:10.0.0.1"}, mr.Keys())
	assert.Equal(t, "rate limiting backed by redis", hook.LastEntry().Message)
}

func TestLimitersFallBackToMemory(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	cfg := config.Config{RedisURL: "redis://127.0.0.1:1"}

	limiter, closeLimiters := newLimiters(context.Background(), cfg, log)
	defer closeLimiters()

	assert.IsType(t, &middleware.RateLimiter{}, limiter("api", 1, time.Minute))
	assert.Equal(t, "redis unavailable, using in-memory rate limiting", hook.LastEntry().Message)
}
