package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/models"
	"github.com/TWRT/company-portal/internal/service"
	"github.com/TWRT/company-portal/internal/session"
	"github.com/TWRT/company-portal/internal/web"
)

const tablePageSize = 5

type HomeHandler struct {
	dashboardService *service.DashboardService
	pages            *Pages
	logger           *zap.Logger
}

func NewHomeHandler(dashboardService *service.DashboardService, pages *Pages, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		dashboardService: dashboardService,
		pages:            pages,
		logger:           logger,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dash := h.dashboardService.Load(r.Context(), identity(r), query.Get("q"), query.Has("q"))

	var notices []web.Flash
	if dash.OverviewErr != nil {
		h.logger.Warn("failed to load overview", zap.Error(dash.OverviewErr))
		notices = append(notices, errorNotice(service.UserMessage(dash.OverviewErr, "Failed to load overview")))
	}
	if dash.AssigneesErr != nil {
		h.logger.Warn("failed to load assignees", zap.Error(dash.AssigneesErr))
		notices = append(notices, errorNotice(service.UserMessage(dash.AssigneesErr, "Failed to load assignees")))
	}
	if dash.SearchErr != nil {
		h.logger.Warn("client search failed", zap.String("q", dash.Query), zap.Error(dash.SearchErr))
		notices = append(notices, errorNotice(service.UserMessage(dash.SearchErr, "Search failed")))
	}

	page, _ := strconv.Atoi(query.Get("page"))
	results := web.Paginate(dash.Results, page, tablePageSize, func(n int) string {
		return "/?" + url.Values{"q": {dash.Query}, "page": {strconv.Itoa(n)}}.Encode()
	})

	data := map[string]any{
		"Dashboard": dash,
		"Results":   results,
	}
	h.pages.Render(w, r, http.StatusOK, "home.html", "Home", data, notices...)
}

// Assign gives the posted client to the current identity, then sends the
// browser back home so the overview is fetched again.
func (h *HomeHandler) Assign(w http.ResponseWriter, r *http.Request) {
	clientId, err := service.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	c := models.Client{
		Id:    clientId,
		Name:  r.PostForm.Get("name"),
		Owner: r.PostForm.Get("owner"),
	}

	err = h.dashboardService.Assign(r.Context(), identity(r), c)
	switch {
	case errors.Is(err, service.ErrAlreadyAssigned):
		h.pages.Flash(r, session.FlashInfo, "Client is already assigned to you")
	case err != nil:
		h.logger.Warn("failed to assign client", zap.Int64("client_id", clientId), zap.Error(err))
		h.pages.Flash(r, session.FlashError, service.UserMessage(err, "Failed to assign"))
	default:
		h.pages.Flash(r, session.FlashSuccess, "Client assigned to you")
	}

	target := "/"
	if r.PostForm.Has("q") {
		target += "?" + url.Values{"q": {r.PostForm.Get("q")}}.Encode()
	}
	h.pages.Redirect(w, r, target)
}
