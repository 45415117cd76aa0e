package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jeremyjsx/postboard/internal/events"
	"github.com/jeremyjsx/postboard/internal/storage"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

const defaultHealthTimeout = 5 * time.Second

type HealthDeps struct {
	Store       Pinger
	Storage     storage.Storage
	RabbitMQURL string
	// Timeout bounds all checks together. Zero means 5s.
	Timeout time.Duration
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports the store, archive and broker state. It runs outside the
// API lock so a slow request does not hide the service's health.
func Health(deps *HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeout := deps.Timeout
		if timeout <= 0 {
			timeout = defaultHealthTimeout
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"

		// The ping skips the API lock. database/sql queues it behind the
		// pool's single connection, so it never runs beside a handler query.
		if err := deps.Store.Ping(ctx); err != nil {
			checks["db"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["db"] = "ok"
		}

		if deps.Storage == nil {
			checks["s3"] = "skipped"
		} else if _, err := deps.Storage.Exists(ctx, "__health__"); err != nil {
			checks["s3"] = "unhealthy"
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["s3"] = "ok"
		}

		if deps.RabbitMQURL != "" {
			conn, err := events.Dial(ctx, deps.RabbitMQURL)
			if err != nil {
				checks["rabbitmq"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				_ = conn.Close()
				checks["rabbitmq"] = "ok"
			}
		} else {
			checks["rabbitmq"] = "skipped"
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{Status: status, Checks: checks})
	}
}
