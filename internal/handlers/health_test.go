package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	var data struct {
		Status   string  `json:"status"`
		Uptime   float64 `json:"uptime"`
		Database string  `json:"database"`
	}

	h := NewHealthHandler(pingFunc(func(context.Context) error { return nil }), quietLogger())
	rec := call(t, http.MethodGet, "/api/health", "/api/health", h.Health, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeData(t, rec, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "OK", data.Status)
	assert.Equal(t, "connected", data.Database)
	assert.GreaterOrEqual(t, data.Uptime, 0.0)

	h = NewHealthHandler(pingFunc(func(context.Context) error { return errors.New("connection refused") }), quietLogger())
	rec = call(t, http.MethodGet, "/api/health", "/api/health", h.Health, nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp = decodeData(t, rec, &data)
	assert.False(t, resp.Success)
	assert.Equal(t, "DEGRADED", data.Status)
	assert.Equal(t, "disconnected", data.Database)
}
