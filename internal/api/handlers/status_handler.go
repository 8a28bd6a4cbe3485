package handlers

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/service"
)

// Pinger reports whether the portal's own store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type StatusHandler struct {
	statusService *service.StatusService
	store         Pinger
	pages         *Pages
	logger        *zap.Logger
}

func NewStatusHandler(statusService *service.StatusService, store Pinger, pages *Pages, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		store:         store,
		pages:         pages,
		logger:        logger,
	}
}

func (h *StatusHandler) Hello(w http.ResponseWriter, r *http.Request) {
	message, err := h.statusService.Hello(r.Context())
	if err != nil {
		h.logger.Warn("backend hello failed", zap.Error(err))
	}
	h.pages.Render(w, r, http.StatusOK, "hello.html", "Hello", message)
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.store.PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}
