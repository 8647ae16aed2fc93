package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves the liveness endpoint. Besides the plain "ok" it
// reports process uptime and which journal backend the server was wired
// with, so a glance at /health tells operators whether events are being
// persisted or held in memory.
type HealthHandler struct {
	started time.Time
	backend string
}

func NewHealthHandler(journalBackend string) *HealthHandler {
	return &HealthHandler{started: time.Now(), backend: journalBackend}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"journal": h.backend,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
