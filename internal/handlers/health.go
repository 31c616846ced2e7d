package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	started time.Time
	log     *logrus.Logger
}

func NewHealthHandler(db Pinger, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now(), log: log}
}

type healthData struct {
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// Health answers 503 when the database cannot be reached.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := healthData{
		Status:    "OK",
		Uptime:    time.Since(h.started).Seconds(),
		Timestamp: time.Now().UTC(),
		Database:  "connected",
	}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("health check: database ping failed")
		data.Status = "DEGRADED"
		data.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, envelope{Success: status == http.StatusOK, Data: data})
}
