package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/autoorder-engine/internal/repository"
	"github.com/segyhp/autoorder-engine/pkg/response"
)

type HealthHandler struct {
	store   repository.Pinger
	driver  string
	timeout time.Duration
}

func NewHealthHandler(store repository.Pinger, driver string, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		store:   store,
		driver:  driver,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready checks connectivity of the configured storage backend
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		status.Status = "error"
		status.Checks[h.driver] = "failed: " + err.Error()
	} else {
		status.Checks[h.driver] = "ok"
	}

	if status.Status == "error" {
		response.ServiceUnavailable(w, "Service not ready", nil)
		return
	}

	response.Success(w, status)
}
