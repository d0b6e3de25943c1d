package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger checks that a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and database status
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	log     *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second, log: log}
}

// ServeHTTP pings the database and reports up or down.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.WithError(err).Error("Database health check failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "down", "database": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "up", "database": "up"})
}
