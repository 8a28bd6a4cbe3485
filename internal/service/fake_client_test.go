package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/TWRT/company-portal/internal/models"
)

// fakeAPI is an in-memory stand-in for the backend. Every call is appended
// to calls as "Method:arg".
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	overview   *models.HomeOverview
	assignees  []models.Assignee
	clients    []models.Client
	ideas      []models.Idea
	assignee   *models.Assignee
	aOverview  *models.AssigneeOverview
	calcs      map[models.CalculatorKind]map[string]any
	coverResp  *models.CoverLetterResponse
	pdfResp    *models.PdfFillResponse
	emailResp  *models.SendEmailResponse
	lastCover  models.CoverLetterRequest
	lastPdf    models.PdfFillRequest
	lastEmail  models.SendEmailRequest
	lastUpdate models.CalculatorUpdate

	err map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calcs: map[models.CalculatorKind]map[string]any{},
		err:   map[string]error{},
	}
}

func (f *fakeAPI) track(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err[call]
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Hello(ctx context.Context) (*models.HelloResponse, error) {
	if err := f.track("Hello"); err != nil {
		return nil, err
	}
	return &models.HelloResponse{Message: "Hello from FastAPI!"}, nil
}

func (f *fakeAPI) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	if err := f.track("ListIdeas"); err != nil {
		return nil, err
	}
	return f.ideas, nil
}

func (f *fakeAPI) CreateIdea(ctx context.Context, input models.IdeaInput) (*models.Idea, error) {
	if err := f.track("CreateIdea"); err != nil {
		return nil, err
	}
	idea := models.Idea{Id: int64(len(f.ideas) + 1), Title: input.Title, Description: input.Description}
	f.ideas = append(f.ideas, idea)
	return &idea, nil
}

func (f *fakeAPI) DeleteIdea(ctx context.Context, id int64) error {
	return f.track("DeleteIdea:" + itoa(id))
}

func (f *fakeAPI) GetHomeOverview(ctx context.Context, owner string) (*models.HomeOverview, error) {
	if err := f.track("GetHomeOverview"); err != nil {
		return nil, err
	}
	return f.overview, nil
}

func (f *fakeAPI) GetMyAssignees(ctx context.Context, owner string) ([]models.Assignee, error) {
	if err := f.track("GetMyAssignees"); err != nil {
		return nil, err
	}
	return f.assignees, nil
}

func (f *fakeAPI) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	if err := f.track("SearchClients"); err != nil {
		return nil, err
	}
	return f.clients, nil
}

func (f *fakeAPI) AssignClient(ctx context.Context, clientId int64, owner string) error {
	return f.track("AssignClient:" + itoa(clientId))
}

func (f *fakeAPI) GenerateCoverLetter(ctx context.Context, req models.CoverLetterRequest) (*models.CoverLetterResponse, error) {
	f.lastCover = req
	if err := f.track("GenerateCoverLetter"); err != nil {
		return nil, err
	}
	return f.coverResp, nil
}

func (f *fakeAPI) FillPdf(ctx context.Context, req models.PdfFillRequest) (*models.PdfFillResponse, error) {
	f.lastPdf = req
	if err := f.track("FillPdf"); err != nil {
		return nil, err
	}
	return f.pdfResp, nil
}

func (f *fakeAPI) SendEmail(ctx context.Context, req models.SendEmailRequest) (*models.SendEmailResponse, error) {
	f.lastEmail = req
	if err := f.track("SendEmail"); err != nil {
		return nil, err
	}
	return f.emailResp, nil
}

func (f *fakeAPI) GetAssignee(ctx context.Context, id int64) (*models.Assignee, error) {
	if err := f.track("GetAssignee:" + itoa(id)); err != nil {
		return nil, err
	}
	return f.assignee, nil
}

func (f *fakeAPI) GetAssigneeOverview(ctx context.Context, id int64) (*models.AssigneeOverview, error) {
	if err := f.track("GetAssigneeOverview:" + itoa(id)); err != nil {
		return nil, err
	}
	return f.aOverview, nil
}

func (f *fakeAPI) GetCalculator(ctx context.Context, id int64, kind models.CalculatorKind) (*models.CalculatorRecord, error) {
	if err := f.track("GetCalculator:" + string(kind)); err != nil {
		return nil, err
	}
	return &models.CalculatorRecord{Data: f.calcs[kind]}, nil
}

func (f *fakeAPI) PutCalculator(ctx context.Context, id int64, kind models.CalculatorKind, update models.CalculatorUpdate) error {
	f.lastUpdate = update
	return f.track("PutCalculator:" + string(kind))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
