package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"partnerlab-agent-be/pkg/session"
)

// SessionRepository keeps sessions in process memory. Items carry a TTL as a
// backstop only; the session.Manager decides expiry with its own clock.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *SessionRepository) Save(_ context.Context, s *session.Session) error {
	r.cache.Set(s.ID, s.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*session.Session, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*session.Session).Clone(), nil
	}
	return nil, session.ErrSessionNotFound
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) List(_ context.Context) ([]string, error) {
	items := r.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	return ids, nil
}
