// Package session resolves the portal identity for each request and keeps
// per-session flash notifications.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TWRT/company-portal/internal/repository"
)

const CookieName = "portal_session"

// Flash kinds understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

// Identity is who the current request acts as. It is resolved once by
// middleware and then passed explicitly to services.
type Identity struct {
	SessionId string
	Owner     string
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

type Manager struct {
	sessions     *repository.SessionRepository
	flashes      *repository.FlashRepository
	defaultOwner string
}

func NewManager(sessions *repository.SessionRepository, flashes *repository.FlashRepository, defaultOwner string) *Manager {
	return &Manager{
		sessions:     sessions,
		flashes:      flashes,
		defaultOwner: defaultOwner,
	}
}

// Resolve loads the session named by cookieValue, or starts a new one for
// the default owner when the cookie is empty or unknown. created reports
// whether a new cookie must be issued.
func (m *Manager) Resolve(cookieValue string) (id Identity, created bool, err error) {
	if cookieValue != "" {
		if _, parseErr := uuid.Parse(cookieValue); parseErr == nil {
			s, getErr := m.sessions.Get(cookieValue)
			switch {
			case getErr == nil:
				if err := m.sessions.Touch(s.Id); err != nil {
					return Identity{}, false, fmt.Errorf("touch session: %w", err)
				}
				return Identity{SessionId: s.Id, Owner: s.Owner}, false, nil
			case !errors.Is(getErr, repository.ErrSessionNotFound):
				return Identity{}, false, getErr
			}
		}
	}

	s := repository.Session{Id: uuid.NewString(), Owner: m.defaultOwner}
	if err := m.sessions.Create(&s); err != nil {
		return Identity{}, false, err
	}
	return Identity{SessionId: s.Id, Owner: s.Owner}, true, nil
}

func (m *Manager) AddFlash(id Identity, kind, message string) error {
	return m.flashes.Create(&repository.Flash{
		SessionId: id.SessionId,
		Kind:      kind,
		Message:   message,
	})
}

func (m *Manager) PopFlashes(id Identity) ([]repository.Flash, error) {
	return m.flashes.Pop(id.SessionId)
}

// Sweep drops sessions idle for longer than maxIdle, along with their
// pending flashes.
func (m *Manager) Sweep(maxIdle time.Duration) (int64, error) {
	return m.sessions.DeleteIdleSince(time.Now().UTC().Add(-maxIdle))
}
