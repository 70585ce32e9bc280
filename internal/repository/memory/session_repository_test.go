package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerlab-agent-be/pkg/labform"
	"partnerlab-agent-be/pkg/session"
)

func TestSessionRepository_CRUD(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	ctx := context.Background()

	s := &session.Session{
		ID:        "s-1",
		UserEmail: "a@b.co",
		Form:      labform.FromMap(map[string]any{"company_name": "Acme"}),
		IsActive:  true,
	}
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.UserEmail)
	assert.Equal(t, s.Form.AsMap(), got.Form.AsMap())

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, ids)

	require.NoError(t, repo.Delete(ctx, "s-1"))
	_, err = repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_ReturnsCopies(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &session.Session{ID: "s-1", Form: labform.NewFormState()}))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	got.UserEmail = "changed@b.co"

	again, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, again.UserEmail)
}

func TestSessionRepository_TTLBackstop(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &session.Session{ID: "s-1"}))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionRepository_WithManager(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	m := session.NewManager(repo, labform.NewEngine())
	ctx := context.Background()

	s, err := m.Create(ctx, "a@b.co")
	require.NoError(t, err)
	tok, ok := labform.NewEngine().ValidateField(labform.FieldCloudProvider, "gcp").Validated()
	require.True(t, ok)
	require.NoError(t, m.UpdateField(ctx, s.ID, tok))

	form, err := m.FormData(ctx, s.ID)
	require.NoError(t, err)
	v, _ := form.Get(labform.FieldCloudProvider)
	assert.Equal(t, "gcp", v)
}
