package models

type CoverLetterRequest struct {
	CandidateName string   `json:"candidate_name"`
	Role          string   `json:"role"`
	Company       string   `json:"company"`
	Highlights    []string `json:"highlights"`
}

type CoverLetterResponse struct {
	Content string `json:"content"`
}

type PdfFillRequest struct {
	Title  string         `json:"title"`
	Fields map[string]any `json:"fields"`
}

type PdfFillResponse struct {
	ContentB64 string `json:"content_b64"`
	Filename   string `json:"filename"`
}

type EmailAttachment struct {
	Filename   string `json:"filename"`
	ContentB64 string `json:"content_b64"`
	Mimetype   string `json:"mimetype"`
}

type SendEmailRequest struct {
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Attachments []EmailAttachment `json:"attachments"`
}

type SendEmailResponse struct {
	Status string `json:"status"`
}

const EmailStatusSent = "sent"
