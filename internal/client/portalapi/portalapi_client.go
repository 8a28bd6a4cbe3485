package portalapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/TWRT/company-portal/internal/models"
)

type PortalClient struct {
	baseUrl    string
	httpClient *http.Client
}

// NewPortalClient builds a client rooted at origin+apiBase, e.g.
// "http://localhost:8000" + "/api".
func NewPortalClient(origin, apiBase string, timeout time.Duration) *PortalClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PortalClient{
		baseUrl:    strings.TrimRight(origin, "/") + "/" + strings.Trim(apiBase, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PortalClient) BaseURL() string {
	return c.baseUrl
}

// do sends one request and decodes a 2xx body into out (when out is non-nil).
func (c *PortalClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request (portal api): %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return fmt.Errorf("build request (portal api): %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s (portal api): %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body (portal api): %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse %s (portal api): %w: %v", path, ErrDecode, err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}
	// FastAPI validation errors put a list under detail; only plain strings
	// are meant for users.
	if s, ok := eb.Detail.(string); ok {
		apiErr.Detail = s
	}
	return apiErr
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}

func (c *PortalClient) Hello(ctx context.Context) (*models.HelloResponse, error) {
	var out models.HelloResponse
	if err := c.do(ctx, http.MethodGet, "/hello", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PortalClient) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	if err := c.do(ctx, http.MethodGet, "/ideas", nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (c *PortalClient) CreateIdea(ctx context.Context, input models.IdeaInput) (*models.Idea, error) {
	var idea models.Idea
	if err := c.do(ctx, http.MethodPost, "/ideas", input, &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

func (c *PortalClient) DeleteIdea(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/ideas/%s", id), nil, nil)
}

func (c *PortalClient) GetHomeOverview(ctx context.Context, owner string) (*models.HomeOverview, error) {
	var overview models.HomeOverview
	path := "/home/overview?owner=" + url.QueryEscape(owner)
	if err := c.do(ctx, http.MethodGet, path, nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *PortalClient) GetMyAssignees(ctx context.Context, owner string) ([]models.Assignee, error) {
	var assignees []models.Assignee
	path := "/home/my-assignees?owner=" + url.QueryEscape(owner)
	if err := c.do(ctx, http.MethodGet, path, nil, &assignees); err != nil {
		return nil, err
	}
	return assignees, nil
}

func (c *PortalClient) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	var clients []models.Client
	path := "/clients/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *PortalClient) AssignClient(ctx context.Context, clientId int64, owner string) error {
	return c.do(ctx, http.MethodPost, idPath("/clients/%s/assign", clientId), assignRequest{Owner: owner}, nil)
}

func (c *PortalClient) GenerateCoverLetter(ctx context.Context, req models.CoverLetterRequest) (*models.CoverLetterResponse, error) {
	var out models.CoverLetterResponse
	if err := c.do(ctx, http.MethodPost, "/tools/cover-letter", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PortalClient) FillPdf(ctx context.Context, req models.PdfFillRequest) (*models.PdfFillResponse, error) {
	var out models.PdfFillResponse
	if err := c.do(ctx, http.MethodPost, "/tools/pdf-fill", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PortalClient) SendEmail(ctx context.Context, req models.SendEmailRequest) (*models.SendEmailResponse, error) {
	var out models.SendEmailResponse
	if err := c.do(ctx, http.MethodPost, "/tools/send-email", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PortalClient) GetAssignee(ctx context.Context, id int64) (*models.Assignee, error) {
	var assignee models.Assignee
	if err := c.do(ctx, http.MethodGet, idPath("/assignees/%s", id), nil, &assignee); err != nil {
		return nil, err
	}
	return &assignee, nil
}

func (c *PortalClient) GetAssigneeOverview(ctx context.Context, id int64) (*models.AssigneeOverview, error) {
	var overview models.AssigneeOverview
	if err := c.do(ctx, http.MethodGet, idPath("/assignees/%s/overview", id), nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *PortalClient) GetCalculator(ctx context.Context, id int64, kind models.CalculatorKind) (*models.CalculatorRecord, error) {
	var record models.CalculatorRecord
	path := idPath("/assignees/%s/calc/", id) + string(kind)
	if err := c.do(ctx, http.MethodGet, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *PortalClient) PutCalculator(ctx context.Context, id int64, kind models.CalculatorKind, update models.CalculatorUpdate) error {
	path := idPath("/assignees/%s/calc/", id) + string(kind)
	return c.do(ctx, http.MethodPut, path, update, nil)
}
