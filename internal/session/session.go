// Package session carries the signed-in member through a request context.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mauv0809/clubdesk/internal/access"
	"github.com/mauv0809/clubdesk/internal/club"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInactiveMember = errors.New("member is inactive")
)

// Session is the identity a request acts as.
type Session struct {
	MemberID  string      `json:"member_id"`
	Name      string      `json:"name"`
	Role      access.Role `json:"-"`
	StartedAt time.Time   `json:"started_at"`
}

// Can reports whether the session's role holds capability.
func (s Session) Can(c access.Capability) bool {
	return access.Can(s.Role, c)
}

// Require fails with access.ErrForbidden when the session's role lacks capability.
func (s Session) Require(c access.Capability) error {
	return access.Require(s.Role, c)
}

// MemberGetter loads a member profile.
type MemberGetter interface {
	GetMember(ctx context.Context, id string) (*club.Member, error)
}

// Start builds the session of memberID. Unknown and inactive members get no session.
func Start(ctx context.Context, members MemberGetter, memberID string) (Session, error) {
	if memberID == "" {
		return Session{}, ErrNoSession
	}
	m, err := members.GetMember(ctx, memberID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session member: %w", err)
	}
	if m.Status == club.StatusInactive {
		return Session{}, ErrInactiveMember
	}
	return Session{
		MemberID:  m.ID,
		Name:      m.Name,
		Role:      access.ParseRole(string(m.Role)),
		StartedAt: time.Now().UTC(),
	}, nil
}

// Mock is the session used when authentication is skipped in development.
func Mock(memberID string) Session {
	return Session{MemberID: memberID, Name: "Developer", Role: access.RoleAdmin, StartedAt: time.Now().UTC()}
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session carried by ctx.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
