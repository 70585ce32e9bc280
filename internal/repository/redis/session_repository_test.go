package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerlab-agent-be/internal/repository/redis"
	"partnerlab-agent-be/pkg/labform"
	"partnerlab-agent-be/pkg/session"
)

func setup(t *testing.T, opts ...redis.Option) (*redis.SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewFromClient(client, opts...), mr
}

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo, mr := setup(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	s := &session.Session{
		ID:             "abc",
		UserEmail:      "a@b.co",
		Form:           labform.FromMap(map[string]any{"company_name": "Acme", "virtualization": true}),
		CreatedAt:      created,
		LastAccessedAt: created,
		IsActive:       true,
	}
	require.NoError(t, repo.Save(ctx, s))
	assert.True(t, mr.Exists("partnerlab:session:abc"))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.UserEmail)
	assert.True(t, got.IsActive)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, s.Form.AsMap(), got.Form.AsMap())

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, ids)

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	ids, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSessionRepository_TTL(t *testing.T) {
	repo, mr := setup(t, redis.WithTTL(time.Hour), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &session.Session{ID: "x"}))
	assert.Equal(t, time.Hour, mr.TTL("test:x"))

	mr.FastForward(2 * time.Hour)
	_, err := repo.Get(ctx, "x")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_WithManager(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()
	engine := labform.NewEngine()
	m := session.NewManager(repo, engine)

	s, err := m.Create(ctx, "a@b.co")
	require.NoError(t, err)

	tok, ok := engine.ValidateField(labform.FieldOpenShiftVersion, "4.15.3").Validated()
	require.True(t, ok)
	require.NoError(t, m.UpdateField(ctx, s.ID, tok))

	report, err := m.CheckCompleteness(ctx, s.ID)
	require.NoError(t, err)
	assert.NotContains(t, report.Missing, labform.FieldOpenShiftVersion)

	require.NoError(t, m.Delete(ctx, s.ID))
	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewSessionRepository_BadURL(t *testing.T) {
	_, err := redis.NewSessionRepository("not a url")
	assert.Error(t, err)
}
