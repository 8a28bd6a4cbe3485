package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/TWRT/company-portal/internal/client"
	"github.com/TWRT/company-portal/internal/models"
	"github.com/TWRT/company-portal/internal/session"
)

type DashboardService struct {
	client client.DashboardClient
}

func NewDashboardService(client client.DashboardClient) *DashboardService {
	return &DashboardService{client: client}
}

type ClientRow struct {
	models.Client
	Assigned bool
}

// Dashboard is the home page view. Each read fails independently; a nil
// error field means that part loaded.
type Dashboard struct {
	Overview     models.HomeOverview
	Assignees    []models.Assignee
	Results      []ClientRow
	Query        string
	Searched     bool
	OverviewErr  error
	AssigneesErr error
	SearchErr    error
}

// Load fetches the overview and the owner's assignees concurrently, and runs
// the client search when search is true. An empty query is still searched.
func (s *DashboardService) Load(ctx context.Context, id session.Identity, query string, search bool) *Dashboard {
	d := &Dashboard{Query: query, Searched: search}

	var g errgroup.Group
	g.Go(func() error {
		overview, err := s.client.GetHomeOverview(ctx, id.Owner)
		if err != nil {
			d.OverviewErr = err
			return nil
		}
		d.Overview = *overview
		return nil
	})
	g.Go(func() error {
		assignees, err := s.client.GetMyAssignees(ctx, id.Owner)
		if err != nil {
			d.AssigneesErr = err
			return nil
		}
		d.Assignees = assignees
		return nil
	})
	if search {
		g.Go(func() error {
			results, err := s.Search(ctx, id, query)
			if err != nil {
				d.SearchErr = err
				return nil
			}
			d.Results = results
			return nil
		})
	}
	_ = g.Wait()

	return d
}

func (s *DashboardService) Search(ctx context.Context, id session.Identity, query string) ([]ClientRow, error) {
	clients, err := s.client.SearchClients(ctx, query)
	if err != nil {
		return nil, err
	}
	rows := make([]ClientRow, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, ClientRow{Client: c, Assigned: c.OwnedBy(id.Owner)})
	}
	return rows, nil
}

// Assign makes id.Owner the owner of c. A client the owner already holds
// is rejected with ErrAlreadyAssigned and no assign request is sent. The
// owner posted with the form is only a hint; the owner's current client
// list is checked before assigning.
func (s *DashboardService) Assign(ctx context.Context, id session.Identity, c models.Client) error {
	if c.OwnedBy(id.Owner) {
		return ErrAlreadyAssigned
	}

	overview, err := s.client.GetHomeOverview(ctx, id.Owner)
	if err != nil {
		return fmt.Errorf("check current clients: %w", err)
	}
	if overview != nil {
		for _, mine := range overview.MyClients {
			if mine.Id == c.Id {
				return ErrAlreadyAssigned
			}
		}
	}

	return s.client.AssignClient(ctx, c.Id, id.Owner)
}
