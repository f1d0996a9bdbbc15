// cmd/worker/startup.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pointhub-backend/pkg/container"
	"pointhub-backend/pkg/logger"
)

const healthAddr = ":9999"

// checkDependencies fails fast when the worker cannot reach Redis or Postgres.
// The API tolerates a missing Redis; the worker cannot.
func checkDependencies(c *container.Container) error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"redis", func(ctx context.Context) error {
			if c.Redis == nil {
				return errors.New("redis is not connected")
			}
			return c.Redis.HealthCheck(ctx)
		}},
		{"postgres", c.DB.HealthCheck},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
		logger.Info("dependency ok", map[string]interface{}{"name": check.name})
	}
	return nil
}

func startHealthCheckServer(c *container.Container) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"UP","service":"pointhub-worker"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := checkDependencies(c); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"NOT_READY"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"READY"}`))
	})

	logger.Info("health check server starting", map[string]interface{}{"addr": healthAddr})
	if err := http.ListenAndServe(healthAddr, mux); err != nil {
		logger.Error("health check server stopped", err)
	}
}
