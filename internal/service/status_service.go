package service

import (
	"context"

	"github.com/TWRT/company-portal/internal/client"
)

const HelloFallback = "Error fetching from backend"

type StatusService struct {
	client client.HelloProvider
}

func NewStatusService(client client.HelloProvider) *StatusService {
	return &StatusService{client: client}
}

// Hello returns the backend's greeting. The error is still returned so the
// caller can log it, alongside the fallback text.
func (s *StatusService) Hello(ctx context.Context) (string, error) {
	resp, err := s.client.Hello(ctx)
	if err != nil {
		return HelloFallback, err
	}
	return resp.Message, nil
}
