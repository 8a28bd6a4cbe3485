package handlers

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/session"
	"github.com/TWRT/company-portal/internal/web"
)

// Pages bundles what every page handler needs to render and notify.
type Pages struct {
	renderer *web.Renderer
	sessions *session.Manager
	logger   *zap.Logger
}

func NewPages(renderer *web.Renderer, sessions *session.Manager, logger *zap.Logger) *Pages {
	return &Pages{
		renderer: renderer,
		sessions: sessions,
		logger:   logger,
	}
}

func identity(r *http.Request) session.Identity {
	id, _ := session.FromContext(r.Context())
	return id
}

// Render writes a full page. Pending flashes from earlier requests are shown
// first, followed by notices raised while handling this request.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, notices ...web.Flash) {
	id := identity(r)

	var flashes []web.Flash
	if id.SessionId != "" {
		pending, err := p.sessions.PopFlashes(id)
		if err != nil {
			p.logger.Warn("failed to load flashes", zap.Error(err))
		}
		for _, f := range pending {
			flashes = append(flashes, web.Flash{Kind: f.Kind, Message: f.Message})
		}
	}
	flashes = append(flashes, notices...)

	page := web.PageData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Owner:       id.Owner,
		Flashes:     flashes,
		Data:        data,
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, name, page); err != nil {
		p.logger.Error("failed to render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (p *Pages) Fragment(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.renderer.RenderFragment(&buf, name, data); err != nil {
		p.logger.Error("failed to render fragment", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Flash queues a notification for the next rendered page.
func (p *Pages) Flash(r *http.Request, kind, message string) {
	id := identity(r)
	if id.SessionId == "" {
		return
	}
	if err := p.sessions.AddFlash(id, kind, message); err != nil {
		p.logger.Warn("failed to store flash", zap.String("message", message), zap.Error(err))
	}
}

// Redirect finishes a successful form post (Post/Redirect/Get).
func (p *Pages) Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func errorNotice(message string) web.Flash {
	return web.Flash{Kind: session.FlashError, Message: message}
}

// fieldErrors turns a validation failure into the per-field messages the
// templates show under each input.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	if vErr := asValidation(err); vErr != nil {
		out[vErr.Field] = vErr.Message
	}
	return out
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
