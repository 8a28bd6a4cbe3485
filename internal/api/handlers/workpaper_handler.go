package handlers

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/service"
	"github.com/TWRT/company-portal/internal/session"
	"github.com/TWRT/company-portal/internal/web"
)

type WorkpaperHandler struct {
	workpaperService *service.WorkpaperService
	pages            *Pages
	logger           *zap.Logger
}

func NewWorkpaperHandler(workpaperService *service.WorkpaperService, pages *Pages, logger *zap.Logger) *WorkpaperHandler {
	return &WorkpaperHandler{
		workpaperService: workpaperService,
		pages:            pages,
		logger:           logger,
	}
}

func sectionPath(assigneeId int64, section string) string {
	return fmt.Sprintf("/workpapers/%d/%s", assigneeId, section)
}

func amountValues(calc service.Calculator, amounts service.Amounts) map[string]string {
	values := make(map[string]string, len(calc.Fields))
	for _, f := range calc.Fields {
		values[f.Key] = amounts[f.Key].String()
	}
	return values
}

func workpaperData(assigneeId int64, section string) map[string]any {
	return map[string]any{
		"View":        nil,
		"Sections":    service.Sections,
		"AssigneeId":  assigneeId,
		"Section":     section,
		"Overview":    nil,
		"Calculator":  nil,
		"Values":      map[string]string{},
		"FieldErrors": map[string]string{},
		"Total":       decimal.Zero,
	}
}

func (h *WorkpaperHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid assignee ID", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, sectionPath(id, service.SectionBasic), http.StatusFound)
}

// Section renders one workpaper section. The assignee is loaded once per
// request and shared read-only with whichever section is selected.
func (h *WorkpaperHandler) Section(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid assignee ID", http.StatusBadRequest)
		return
	}
	section := service.SelectSection(r.URL.Path)
	data := workpaperData(id, section)

	view, err := h.workpaperService.Open(r.Context(), id, section)
	if err != nil {
		h.logger.Warn("failed to load assignee", zap.Int64("assignee_id", id), zap.Error(err))
		h.pages.Render(w, r, http.StatusBadGateway, "workpaper.html", "Workpaper", data,
			errorNotice(service.UserMessage(err, "Failed to load assignee")))
		return
	}
	data["View"] = view
	title := view.Assignee.Name

	var notices []web.Flash
	switch section {
	case service.SectionOverview:
		overview, err := h.workpaperService.Overview(r.Context(), id)
		if err != nil {
			h.logger.Warn("failed to load overview", zap.Int64("assignee_id", id), zap.Error(err))
			notices = append(notices, errorNotice(service.UserMessage(err, "Failed to load overview")))
		} else {
			data["Overview"] = overview
		}
	case service.SectionIncomeTax, service.SectionDeductions:
		calc, _ := service.CalculatorFor(section)
		amounts, err := h.workpaperService.LoadCalculator(r.Context(), id, calc)
		if err != nil {
			h.logger.Warn("failed to load calculator", zap.Int64("assignee_id", id), zap.String("kind", section), zap.Error(err))
			notices = append(notices, errorNotice(service.UserMessage(err, "Failed to load calculator")))
		}
		data["Calculator"] = &calc
		data["Values"] = amountValues(calc, amounts)
		data["Total"] = calc.Total(amounts)
	}

	h.pages.Render(w, r, http.StatusOK, "workpaper.html", title, data, notices...)
}

// Save replaces the stored calculator inputs with the submitted ones.
func (h *WorkpaperHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid assignee ID", http.StatusBadRequest)
		return
	}
	calc, ok := service.CalculatorFor(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	amounts, err := calc.ParseForm(r.PostForm)
	if err == nil {
		err = h.workpaperService.SaveCalculator(r.Context(), id, calc, amounts)
	}
	if err != nil {
		h.logger.Warn("failed to save calculator", zap.Int64("assignee_id", id), zap.String("kind", string(calc.Kind)), zap.Error(err))
		h.renderCalculatorError(w, r, id, calc, err)
		return
	}

	h.pages.Flash(r, session.FlashSuccess, "Saved")
	h.pages.Redirect(w, r, sectionPath(id, string(calc.Kind)))
}

func (h *WorkpaperHandler) renderCalculatorError(w http.ResponseWriter, r *http.Request, id int64, calc service.Calculator, saveErr error) {
	section := string(calc.Kind)
	data := workpaperData(id, section)

	values := make(map[string]string, len(calc.Fields))
	for _, f := range calc.Fields {
		values[f.Key] = r.PostForm.Get(f.Key)
	}
	data["Calculator"] = &calc
	data["Values"] = values
	data["FieldErrors"] = fieldErrors(saveErr)
	data["Total"] = calc.Total(calc.FromForm(r.PostForm))

	notices := []web.Flash{errorNotice(service.UserMessage(saveErr, "Save failed"))}
	title := "Workpaper"
	view, err := h.workpaperService.Open(r.Context(), id, section)
	if err != nil {
		h.logger.Warn("failed to load assignee", zap.Int64("assignee_id", id), zap.Error(err))
		notices = append(notices, errorNotice(service.UserMessage(err, "Failed to load assignee")))
	} else {
		data["View"] = view
		title = view.Assignee.Name
	}

	h.pages.Render(w, r, failureStatus(saveErr), "workpaper.html", title, data, notices...)
}

// Total recomputes the running total for the edit buffer without saving.
func (h *WorkpaperHandler) Total(w http.ResponseWriter, r *http.Request) {
	calc, ok := service.CalculatorFor(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	h.pages.Fragment(w, http.StatusOK, "fragments/calc-total", map[string]any{
		"Label":   calc.TotalLabel,
		"Formula": calc.Formula(),
		"Total":   calc.Total(calc.FromForm(r.PostForm)),
	})
}
