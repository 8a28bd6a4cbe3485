package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/client"
	"github.com/TWRT/company-portal/internal/models"
	"github.com/TWRT/company-portal/internal/repository"
	"github.com/TWRT/company-portal/internal/session"
)

const (
	ToolCoverLetter = "cover-letter"
	ToolPdfFill     = "pdf-fill"
	ToolSendEmail   = "send-email"

	DefaultPdfTitle    = "Generated Form"
	DefaultPdfFilename = "form.pdf"
	DefaultMimetype    = "application/octet-stream"

	recentRunsLimit = 10
)

type ToolService struct {
	client client.ToolClient
	runs   *repository.ToolRunRepository
	logger *zap.Logger
}

func NewToolService(client client.ToolClient, runs *repository.ToolRunRepository, logger *zap.Logger) *ToolService {
	return &ToolService{
		client: client,
		runs:   runs,
		logger: logger,
	}
}

// SplitHighlights turns a one-per-line text field into trimmed, non-empty
// entries.
func SplitHighlights(text string) []string {
	return splitNonEmpty(text, "\n")
}

// SplitRecipients turns a comma-separated address list into trimmed,
// non-empty entries.
func SplitRecipients(text string) []string {
	return splitNonEmpty(text, ",")
}

func splitNonEmpty(text, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(text, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type CoverLetterForm struct {
	CandidateName string
	Role          string
	Company       string
	Highlights    string
}

func (f CoverLetterForm) Validate() error {
	switch {
	case strings.TrimSpace(f.CandidateName) == "":
		return invalid("candidate_name", "Please enter your name")
	case strings.TrimSpace(f.Role) == "":
		return invalid("role", "Please enter a role")
	case strings.TrimSpace(f.Company) == "":
		return invalid("company", "Please enter a company")
	}
	return nil
}

func (s *ToolService) GenerateCoverLetter(ctx context.Context, id session.Identity, form CoverLetterForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	resp, err := s.client.GenerateCoverLetter(ctx, models.CoverLetterRequest{
		CandidateName: form.CandidateName,
		Role:          form.Role,
		Company:       form.Company,
		Highlights:    SplitHighlights(form.Highlights),
	})
	s.record(id, ToolCoverLetter, err, form.Company)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

type PdfForm struct {
	Title      string
	FieldsJSON string
}

// ParseFields decodes the free-form fields payload. Anything other than a
// JSON object is rejected.
func ParseFields(text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("fields_json", "Please enter the fields as JSON")
	}
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, invalid("fields_json", "Invalid JSON")
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("fields_json", "Fields must be a JSON object")
	}
	return fields, nil
}

type PdfDocument struct {
	Filename string
	Content  []byte
}

func (s *ToolService) FillPdf(ctx context.Context, id session.Identity, form PdfForm) (*PdfDocument, error) {
	fields, err := ParseFields(form.FieldsJSON)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(form.Title)
	if title == "" {
		title = DefaultPdfTitle
	}

	resp, err := s.client.FillPdf(ctx, models.PdfFillRequest{Title: title, Fields: fields})
	if err != nil {
		s.record(id, ToolPdfFill, err, title)
		return nil, err
	}

	content, err := base64.StdEncoding.DecodeString(resp.ContentB64)
	if err != nil {
		err = fmt.Errorf("decode pdf content: %w", err)
		s.record(id, ToolPdfFill, err, title)
		return nil, err
	}

	filename := resp.Filename
	if filename == "" {
		filename = DefaultPdfFilename
	}
	s.record(id, ToolPdfFill, nil, filename)
	return &PdfDocument{Filename: filename, Content: content}, nil
}

type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type EmailForm struct {
	To          string
	Subject     string
	Body        string
	Attachments []Upload
}

func (f EmailForm) Validate() error {
	switch {
	case len(SplitRecipients(f.To)) == 0:
		return invalid("to", "Please enter at least one recipient")
	case strings.TrimSpace(f.Subject) == "":
		return invalid("subject", "Please enter a subject")
	case strings.TrimSpace(f.Body) == "":
		return invalid("body", "Please enter a message body")
	}
	return nil
}

// EncodeAttachment reads the upload fully and base64-encodes it.
func EncodeAttachment(u Upload) (models.EmailAttachment, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, u.Content); err != nil {
		return models.EmailAttachment{}, fmt.Errorf("read attachment %s: %w", u.Filename, err)
	}
	mimetype := u.ContentType
	if mimetype == "" {
		mimetype = DefaultMimetype
	}
	return models.EmailAttachment{
		Filename:   u.Filename,
		ContentB64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Mimetype:   mimetype,
	}, nil
}

type EmailResult struct {
	Status string
}

// Sent reports whether the backend actually delivered the message. Any
// other status means it only built a preview.
func (r EmailResult) Sent() bool {
	return r.Status == models.EmailStatusSent
}

func (s *ToolService) SendEmail(ctx context.Context, id session.Identity, form EmailForm) (*EmailResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	attachments := make([]models.EmailAttachment, 0, len(form.Attachments))
	for _, u := range form.Attachments {
		a, err := EncodeAttachment(u)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}

	resp, err := s.client.SendEmail(ctx, models.SendEmailRequest{
		To:          SplitRecipients(form.To),
		Subject:     form.Subject,
		Body:        form.Body,
		Attachments: attachments,
	})
	if err != nil {
		s.record(id, ToolSendEmail, err, form.Subject)
		return nil, err
	}

	result := &EmailResult{Status: resp.Status}
	detail := form.Subject
	if !result.Sent() {
		detail = "preview: " + detail
	}
	s.record(id, ToolSendEmail, nil, detail)
	return result, nil
}

func (s *ToolService) RecentRuns(id session.Identity) ([]repository.ToolRun, error) {
	return s.runs.ListRecent(id.Owner, recentRunsLimit)
}

// record writes the activity log entry. Failing to record never fails the
// tool itself.
func (s *ToolService) record(id session.Identity, tool string, toolErr error, detail string) {
	run := repository.ToolRun{Owner: id.Owner, Tool: tool, Outcome: "ok", Detail: detail}
	if toolErr != nil {
		run.Outcome = "error"
		run.Detail = toolErr.Error()
	}
	if _, err := s.runs.Create(&run); err != nil {
		s.logger.Warn("failed to record tool run", zap.String("tool", tool), zap.Error(err))
	}
}
