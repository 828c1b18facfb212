package activity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-app/moa-backend/internal/testutil"
)

func seedActivity(t *testing.T, repo Repository) *Activity {
	t.Helper()
	a := &Activity{
		ID:              uuid.NewString(),
		Title:           "Morning run",
		Category:        CategorySports,
		Description:     "Easy 5k around the lake",
		HostUserID:      "host-1",
		HostName:        "Minji Kim",
		LocationName:    "Lakeside Park",
		StartDateTime:   time.Date(2026, 10, 2, 7, 0, 0, 0, time.UTC),
		MaxParticipants: 5,
		Status:          StatusOpen,
	}
	require.NoError(t, a.setParticipants([]string{"host-1"}))
	require.NoError(t, repo.Create(a))
	return a
}

func TestUpdateRosterCAS(t *testing.T) {
	db := testutil.DB(t, &Activity{})
	repo := NewRepository(db)

	a := seedActivity(t, repo)

	require.NoError(t, a.setParticipants([]string{"host-1", "user-a"}))
	ok, err := repo.UpdateRosterCAS(a, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), a.Version)

	got, err := repo.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 2, got.CurrentParticipants)
	assert.Equal(t, []string{"host-1", "user-a"}, got.ParticipantIDs())
}

func TestUpdateRosterCASStaleVersion(t *testing.T) {
	db := testutil.DB(t, &Activity{})
	repo := NewRepository(db)

	a := seedActivity(t, repo)

	// First writer wins and moves the version.
	fresh := *a
	require.NoError(t, fresh.setParticipants([]string{"host-1", "user-a"}))
	ok, err := repo.UpdateRosterCAS(&fresh, 0)
	require.NoError(t, err)
	require.True(t, ok)

	// Second writer still holds version 0 and must be rejected.
	stale := *a
	require.NoError(t, stale.setParticipants([]string{"host-1", "user-b"}))
	ok, err = repo.UpdateRosterCAS(&stale, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"host-1", "user-a"}, got.ParticipantIDs())
	assert.Equal(t, int64(1), got.Version)
}
