package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/parfold/parfold/internal/domain"
	"github.com/parfold/parfold/internal/service"
)

// EventHandler serves the journaled-event read API.
type EventHandler struct {
	svc    *service.AlertService
	logger *zap.Logger
}

func NewEventHandler(svc *service.AlertService, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/events
//
// Query parameters: kind, severity, entity_id, since_tick, page, limit.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ListFilter{
		Kind:     domain.Kind(q.Get("kind")),
		Severity: domain.Severity(q.Get("severity")),
	}

	if v := q.Get("entity_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "entity_id must be an integer")
			return
		}
		f.EntityID = &id
	}
	if v := q.Get("since_tick"); v != "" {
		tick, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "since_tick must be a non-negative integer")
			return
		}
		f.SinceTick = &tick
	}
	if v := q.Get("page"); v != "" {
		f.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}

	events, total, used, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
		"page":   used.Page,
		"limit":  used.Limit,
	})
}
