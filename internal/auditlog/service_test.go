package auditlog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-app/moa-backend/internal/testutil"
)

func TestLogAction(t *testing.T) {
	db := testutil.DB(t, &AuditLog{})
	repo := NewRepository(db)
	svc := NewService(repo)

	userID := "user-1"
	svc.LogAction(context.Background(), &userID, "USER_LOGIN",
		map[string]interface{}{"email": "minji@univ.ac.kr"}, "10.0.0.1", "success")
	svc.LogAction(context.Background(), nil, "USER_LOGIN",
		map[string]interface{}{"email": "minji@univ.ac.kr", "error": "bad password"}, "10.0.0.1", "failure")

	entries, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "failure", entries[0].Status)
	assert.Nil(t, entries[0].UserID)
	assert.Equal(t, "success", entries[1].Status)
	require.NotNil(t, entries[1].UserID)
	assert.Equal(t, "user-1", *entries[1].UserID)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entries[1].Details, &details))
	assert.Equal(t, "minji@univ.ac.kr", details["email"])
	assert.Equal(t, "10.0.0.1", entries[1].IPAddress)
}

func TestLogActionNilDetails(t *testing.T) {
	db := testutil.DB(t, &AuditLog{})
	repo := NewRepository(db)
	svc := NewService(repo)

	svc.LogAction(context.Background(), nil, "ACTIVITY_CREATED", nil, "", "failure")

	entries, err := repo.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, "{}", string(entries[0].Details))
}
