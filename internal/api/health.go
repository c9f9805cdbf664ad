// Package api provides the HTTP handlers for kinnet.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the edge store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	store     Pinger
	log       *logrus.Logger
	version   string
	driver    string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. store may be nil.
func NewHealthHandler(store Pinger, log *logrus.Logger, version, driver string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		log:       log,
		version:   version,
		driver:    driver,
		startTime: time.Now(),
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Store         string  `json:"store"`
	StoreDriver   string  `json:"store_driver"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /health. A store outage is reported but does not fail liveness.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Store:         "connected",
		StoreDriver:   h.driver,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.store == nil {
		resp.Store = "not_configured"
	} else if err := h.ping(c.Request.Context(), 2*time.Second); err != nil {
		resp.Store = "disconnected"
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"store": "ok"}

	if h.store == nil {
		checks["store"] = "not_configured"
		c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "not_ready", Checks: checks})

		return
	}

	if err := h.ping(c.Request.Context(), 3*time.Second); err != nil {
		h.log.WithError(err).Error("readiness: store ping failed")
		checks["store"] = "error"
		c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "not_ready", Checks: checks})

		return
	}

	c.JSON(http.StatusOK, readinessResponse{Status: "ready", Checks: checks})
}

func (h *HealthHandler) ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return h.store.Ping(ctx)
}
