package service

import (
	"context"
	"strings"

	"github.com/TWRT/company-portal/internal/client"
	"github.com/TWRT/company-portal/internal/models"
)

const ideaTitleMaxLength = 120

type IdeaService struct {
	client client.IdeaClient
}

func NewIdeaService(client client.IdeaClient) *IdeaService {
	return &IdeaService{client: client}
}

func (s *IdeaService) List(ctx context.Context) ([]models.Idea, error) {
	return s.client.ListIdeas(ctx)
}

func (s *IdeaService) Create(ctx context.Context, input models.IdeaInput) (*models.Idea, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" {
		return nil, invalid("title", "Please enter a title")
	}
	if len([]rune(input.Title)) > ideaTitleMaxLength {
		return nil, invalid("title", "Title must be at most 120 characters")
	}
	return s.client.CreateIdea(ctx, input)
}

func (s *IdeaService) Delete(ctx context.Context, id int64) error {
	return s.client.DeleteIdea(ctx, id)
}

// ScoreBand maps a server-computed idea score to its display color.
func ScoreBand(score int) string {
	switch {
	case score >= 10:
		return "red"
	case score >= 6:
		return "orange"
	case score >= 3:
		return "green"
	default:
		return "blue"
	}
}
