package client

import (
	"context"

	"github.com/TWRT/company-portal/internal/models"
)

type HelloProvider interface {
	Hello(ctx context.Context) (*models.HelloResponse, error)
}

type IdeaClient interface {
	ListIdeas(ctx context.Context) ([]models.Idea, error)
	CreateIdea(ctx context.Context, input models.IdeaInput) (*models.Idea, error)
	DeleteIdea(ctx context.Context, id int64) error
}

type DashboardClient interface {
	GetHomeOverview(ctx context.Context, owner string) (*models.HomeOverview, error)
	GetMyAssignees(ctx context.Context, owner string) ([]models.Assignee, error)
	SearchClients(ctx context.Context, query string) ([]models.Client, error)
	AssignClient(ctx context.Context, clientId int64, owner string) error
}

type ToolClient interface {
	GenerateCoverLetter(ctx context.Context, req models.CoverLetterRequest) (*models.CoverLetterResponse, error)
	FillPdf(ctx context.Context, req models.PdfFillRequest) (*models.PdfFillResponse, error)
	SendEmail(ctx context.Context, req models.SendEmailRequest) (*models.SendEmailResponse, error)
}

type AssigneeProvider interface {
	GetAssignee(ctx context.Context, id int64) (*models.Assignee, error)
	GetAssigneeOverview(ctx context.Context, id int64) (*models.AssigneeOverview, error)
}

type CalculatorStore interface {
	GetCalculator(ctx context.Context, id int64, kind models.CalculatorKind) (*models.CalculatorRecord, error)
	PutCalculator(ctx context.Context, id int64, kind models.CalculatorKind, update models.CalculatorUpdate) error
}

type WorkpaperClient interface {
	AssigneeProvider
	CalculatorStore
}

// PortalAPI is everything the portal needs from the backend.
type PortalAPI interface {
	HelloProvider
	IdeaClient
	DashboardClient
	ToolClient
	WorkpaperClient
}
