package session

import (
	"context"
	"errors"
	"time"

	"partnerlab-agent-be/pkg/labform"
)

// ErrSessionNotFound is returned for unknown, expired or closed sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is one conversational context and the form it is filling in.
type Session struct {
	ID             string            `json:"id"`
	UserEmail      string            `json:"user_email"`
	Form           labform.FormState `json:"form"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	IsActive       bool              `json:"is_active"`
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Form = s.Form.Clone()
	return &c
}

// Repository stores sessions by id. Get returns ErrSessionNotFound for
// unknown ids. Implementations must not hand out pointers they keep.
type Repository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Recorder receives lifecycle counters. See pkg/metrics.
type Recorder interface {
	SessionStarted()
	SessionClosed(reason string)
	FieldWritten(field string)
}

const (
	ReasonDeleted = "deleted"
	ReasonExpired = "expired"
)

type nopRecorder struct{}

func (nopRecorder) SessionStarted()      {}
func (nopRecorder) SessionClosed(string) {}
func (nopRecorder) FieldWritten(string)  {}
