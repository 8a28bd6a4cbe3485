package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/api/handlers"
	"github.com/TWRT/company-portal/internal/client/portalapi"
	"github.com/TWRT/company-portal/internal/config"
	"github.com/TWRT/company-portal/internal/repository"
	"github.com/TWRT/company-portal/internal/service"
	"github.com/TWRT/company-portal/internal/session"
	"github.com/TWRT/company-portal/internal/web"
)

func SetupRouter(db *sql.DB, cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(cfg.ProxyTarget)
	if err != nil {
		return nil, fmt.Errorf("parse proxy target: %w", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	portalClient := portalapi.NewPortalClient(cfg.ProxyTarget, cfg.APIBase, cfg.BackendTimeout)

	sessionRepo := repository.NewSessionRepository(db)
	flashRepo := repository.NewFlashRepository(db)
	toolRunRepo := repository.NewToolRunRepository(db)

	sessions := session.NewManager(sessionRepo, flashRepo, cfg.DefaultOwner)

	dashboardService := service.NewDashboardService(portalClient)
	ideaService := service.NewIdeaService(portalClient)
	toolService := service.NewToolService(portalClient, toolRunRepo, logger)
	workpaperService := service.NewWorkpaperService(portalClient)
	statusService := service.NewStatusService(portalClient)

	pages := handlers.NewPages(renderer, sessions, logger)
	homeHandler := handlers.NewHomeHandler(dashboardService, pages, logger)
	toolHandler := handlers.NewToolHandler(toolService, ideaService, pages, logger)
	workpaperHandler := handlers.NewWorkpaperHandler(workpaperService, pages, logger)
	statusHandler := handlers.NewStatusHandler(statusService, db, pages, logger)

	pageMux := http.NewServeMux()

	pageMux.HandleFunc("GET /{$}", homeHandler.Home)
	pageMux.HandleFunc("POST /clients/{id}/assign", homeHandler.Assign)

	pageMux.HandleFunc("GET /tools", toolHandler.Tools)
	pageMux.HandleFunc("POST /tools/cover-letter", toolHandler.CoverLetter)
	pageMux.HandleFunc("POST /tools/pdf-fill", toolHandler.PdfFill)
	pageMux.HandleFunc("POST /tools/send-email", toolHandler.SendEmail)
	pageMux.HandleFunc("POST /tools/ideas", toolHandler.CreateIdea)
	pageMux.HandleFunc("POST /tools/ideas/{id}/delete", toolHandler.DeleteIdea)

	pageMux.HandleFunc("GET /workpapers/{id}", workpaperHandler.Open)
	pageMux.HandleFunc("GET /workpapers/{id}/{section}", workpaperHandler.Section)
	pageMux.HandleFunc("POST /workpapers/{id}/{kind}", workpaperHandler.Save)
	pageMux.HandleFunc("POST /workpapers/{id}/{kind}/total", workpaperHandler.Total)

	pageMux.HandleFunc("GET /hello", statusHandler.Hello)

	mux := http.NewServeMux()
	mux.Handle(strings.TrimRight(cfg.APIBase, "/")+"/", newBackendProxy(target, logger))
	mux.Handle("GET /static/", http.StripPrefix("/static/", web.StaticHandler()))
	mux.HandleFunc("GET /healthz", statusHandler.Health)
	mux.Handle("/", sessionMiddleware(pageMux, sessions, logger))

	var handler http.Handler = mux
	handler = recoveryMiddleware(handler, logger)
	handler = loggingMiddleware(handler, logger)
	return handler, nil
}
