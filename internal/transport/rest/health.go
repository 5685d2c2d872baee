package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const storePingTimeout = 2 * time.Second

// HealthHandler answers the liveness and readiness endpoints. Liveness only
// says the process is serving; readiness means the shared connection
// pool can reach the store.
type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type checkResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type healthReport struct {
	Status    string                 `json:"status"`
	CheckedAt time.Time              `json:"checked_at"`
	Checks    map[string]checkResult `json:"checks"`
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
	defer cancel()

	started := time.Now()
	pingErr := h.db.PingContext(ctx)

	store := checkResult{
		Status:    "ok",
		LatencyMs: time.Since(started).Milliseconds(),
	}
	overall := "ok"
	code := http.StatusOK
	if pingErr != nil {
		store.Status = "unreachable"
		store.Error = pingErr.Error()
		overall = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSONStatus(w, code, healthReport{
		Status:    overall,
		CheckedAt: time.Now(),
		Checks:    map[string]checkResult{"database": store},
	})
}

func writeJSONStatus(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
