// Package health serves the liveness probe used by container orchestrators.
package health

import (
	"encoding/json"
	"net/http"
)

// Path is where the probe is mounted.
const Path = "/health"

// StatusHealthy is the only status the probe reports.
const StatusHealthy = "healthy"

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler answers liveness probes. It runs outside the huma API so it never
// appears in the OpenAPI document.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(Response{Status: StatusHealthy})
	}
}
