package controllers

import (
	"net/http"

	"github.com/agriferti/agriferti-backend/api/responses"
	"github.com/agriferti/agriferti-backend/internal/health"
	"github.com/agriferti/agriferti-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AgriFerti-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports the monitor's latest dependency snapshot. The snapshot
// is advisory; a degraded dependency is surfaced in the payload and status
// code but never blocks in-flight request handling.
func HealthReady(cfg *config.Config, monitor *health.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AgriFerti-Env", cfg.App.Env)

		if monitor == nil {
			responses.WriteSuccess(w, map[string]string{"status": "ready"})
			return
		}

		snapshot := monitor.Snapshot()
		payload := map[string]any{
			"status":   "ready",
			"snapshot": snapshot,
		}
		if !snapshot.Healthy() {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
