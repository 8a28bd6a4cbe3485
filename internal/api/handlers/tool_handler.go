package handlers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/models"
	"github.com/TWRT/company-portal/internal/service"
	"github.com/TWRT/company-portal/internal/session"
	"github.com/TWRT/company-portal/internal/web"
)

const maxUploadMemory = 32 << 20

type toolTab struct {
	Key   string
	Label string
}

var toolTabs = []toolTab{
	{Key: "cover", Label: "Cover Letter"},
	{Key: "pdf", Label: "PDF Filler"},
	{Key: "email", Label: "Email Sender"},
	{Key: "ideas", Label: "Ideas (Sample Tool)"},
}

func selectTab(key string) string {
	for _, t := range toolTabs {
		if t.Key == key {
			return key
		}
	}
	return toolTabs[0].Key
}

type emailFormValues struct {
	To      string
	Subject string
	Body    string
}

type ToolHandler struct {
	toolService *service.ToolService
	ideaService *service.IdeaService
	pages       *Pages
	logger      *zap.Logger
}

func NewToolHandler(toolService *service.ToolService, ideaService *service.IdeaService, pages *Pages, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{
		toolService: toolService,
		ideaService: ideaService,
		pages:       pages,
		logger:      logger,
	}
}

// toolsData is the template data with every form present and empty, so each
// tab can be rendered regardless of which one is selected.
func (h *ToolHandler) toolsData(r *http.Request, tab string) (map[string]any, []web.Flash) {
	data := map[string]any{
		"Tabs":        toolTabs,
		"Tab":         tab,
		"Cover":       service.CoverLetterForm{},
		"Letter":      "",
		"Pdf":         service.PdfForm{},
		"Email":       emailFormValues{},
		"Idea":        models.IdeaInput{},
		"Ideas":       web.Page[models.Idea]{},
		"FieldErrors": map[string]string{},
		"Runs":        nil,
	}

	var notices []web.Flash
	if tab == "ideas" {
		ideas, err := h.ideaService.List(r.Context())
		if err != nil {
			h.logger.Warn("failed to load ideas", zap.Error(err))
			notices = append(notices, errorNotice(service.UserMessage(err, "Failed to load ideas")))
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		data["Ideas"] = web.Paginate(ideas, page, tablePageSize, func(n int) string {
			return "/tools?" + url.Values{"tab": {"ideas"}, "page": {strconv.Itoa(n)}}.Encode()
		})
	}

	runs, err := h.toolService.RecentRuns(identity(r))
	if err != nil {
		h.logger.Warn("failed to load tool activity", zap.Error(err))
	}
	data["Runs"] = runs

	return data, notices
}

func (h *ToolHandler) Tools(w http.ResponseWriter, r *http.Request) {
	data, notices := h.toolsData(r, selectTab(r.URL.Query().Get("tab")))
	h.pages.Render(w, r, http.StatusOK, "tools.html", "Tools", data, notices...)
}

func (h *ToolHandler) CoverLetter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := service.CoverLetterForm{
		CandidateName: r.PostForm.Get("candidate_name"),
		Role:          r.PostForm.Get("role"),
		Company:       r.PostForm.Get("company"),
		Highlights:    r.PostForm.Get("highlights"),
	}

	letter, err := h.toolService.GenerateCoverLetter(r.Context(), identity(r), form)

	data, notices := h.toolsData(r, "cover")
	data["Cover"] = form
	if err != nil {
		h.logger.Warn("cover letter failed", zap.Error(err))
		data["FieldErrors"] = fieldErrors(err)
		notices = append(notices, errorNotice(service.UserMessage(err, "Failed to generate")))
		h.pages.Render(w, r, failureStatus(err), "tools.html", "Tools", data, notices...)
		return
	}

	data["Letter"] = letter
	h.pages.Render(w, r, http.StatusOK, "tools.html", "Tools", data, notices...)
}

// PdfFill streams the generated document as a download. Failures re-render
// the form with the user's input intact.
func (h *ToolHandler) PdfFill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := service.PdfForm{
		Title:      r.PostForm.Get("title"),
		FieldsJSON: r.PostForm.Get("fields_json"),
	}

	doc, err := h.toolService.FillPdf(r.Context(), identity(r), form)
	if err != nil {
		h.logger.Warn("pdf fill failed", zap.Error(err))
		data, notices := h.toolsData(r, "pdf")
		data["Pdf"] = form
		data["FieldErrors"] = fieldErrors(err)
		notices = append(notices, errorNotice(service.UserMessage(err, "PDF generation failed")))
		h.pages.Render(w, r, failureStatus(err), "tools.html", "Tools", data, notices...)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Content)
}

func (h *ToolHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	values := emailFormValues{
		To:      r.FormValue("to"),
		Subject: r.FormValue("subject"),
		Body:    r.FormValue("body"),
	}
	form := service.EmailForm{To: values.To, Subject: values.Subject, Body: values.Body}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["attachments"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "Invalid attachment", http.StatusBadRequest)
				return
			}
			opened = append(opened, f)
			form.Attachments = append(form.Attachments, service.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     f,
			})
		}
	}

	result, err := h.toolService.SendEmail(r.Context(), identity(r), form)
	if err != nil {
		h.logger.Warn("send email failed", zap.Error(err))
		data, notices := h.toolsData(r, "email")
		data["Email"] = values
		data["FieldErrors"] = fieldErrors(err)
		notices = append(notices, errorNotice(service.UserMessage(err, "Failed to send")))
		h.pages.Render(w, r, failureStatus(err), "tools.html", "Tools", data, notices...)
		return
	}

	if result.Sent() {
		h.pages.Flash(r, session.FlashSuccess, "Email sent")
	} else {
		h.pages.Flash(r, session.FlashInfo, "Preview only (SMTP not configured)")
	}
	h.pages.Redirect(w, r, "/tools?tab=email")
}

func (h *ToolHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	input := models.IdeaInput{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
	}

	if _, err := h.ideaService.Create(r.Context(), input); err != nil {
		h.logger.Warn("failed to create idea", zap.Error(err))
		data, notices := h.toolsData(r, "ideas")
		data["Idea"] = input
		data["FieldErrors"] = fieldErrors(err)
		notices = append(notices, errorNotice(service.UserMessage(err, "Failed to create")))
		h.pages.Render(w, r, failureStatus(err), "tools.html", "Tools", data, notices...)
		return
	}

	h.pages.Flash(r, session.FlashSuccess, "Idea added")
	h.pages.Redirect(w, r, "/tools?tab=ideas")
}

// DeleteIdea removes one idea. HTMX callers get an empty 200 body, which
// swaps the row out of the table; the row is only removed once the backend
// has confirmed. A failed HTMX delete leaves the row and swaps the error
// notice into the page out of band.
func (h *ToolHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid idea ID", http.StatusBadRequest)
		return
	}

	if err := h.ideaService.Delete(r.Context(), id); err != nil {
		h.logger.Warn("failed to delete idea", zap.Int64("idea_id", id), zap.Error(err))
		if isHTMX(r) {
			// Keep the row and show the notice in place.
			w.Header().Set("HX-Reswap", "none")
			h.pages.Fragment(w, http.StatusOK, "fragments/flashes-oob", []web.Flash{errorNotice("Delete failed")})
			return
		}
		h.pages.Flash(r, session.FlashError, "Delete failed")
		h.pages.Redirect(w, r, "/tools?tab=ideas")
		return
	}

	if isHTMX(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.pages.Flash(r, session.FlashSuccess, "Idea deleted")
	h.pages.Redirect(w, r, "/tools?tab=ideas")
}
