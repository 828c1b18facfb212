package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(t)
	h := NewHandler(svc)

	r := gin.New()
	r.POST("/api/activities", h.Create)
	r.GET("/api/activities", h.List)
	r.PUT("/api/activities/:id/join", h.Join)
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func createPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":           "Evening study group",
		"category":        "Study",
		"description":     "Reviewing chapters 4-6",
		"hostUserId":      "host-1",
		"hostName":        "Minji Kim",
		"locationName":    "Central Library",
		"locationLat":     37.5665,
		"locationLng":     126.978,
		"startDateTime":   "2026-10-01T18:00:00Z",
		"maxParticipants": 2,
	}
}

func TestCreateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/activities", createPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Activity created successfully", body["message"])

	a, ok := body["activity"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Evening study group", a["title"])
	assert.Equal(t, "open", a["status"])
	assert.Equal(t, float64(1), a["currentParticipants"])
	assert.Equal(t, []interface{}{"host-1"}, a["participants"])
	assert.Equal(t, "2026-10-01T18:00:00Z", a["startDateTime"])
	assert.NotContains(t, a, "version")
}

func TestCreateEndpointRejectsBadInput(t *testing.T) {
	r, _ := newTestRouter(t)

	payload := createPayload()
	delete(payload, "title")
	w, body := doJSON(t, r, http.MethodPost, "/api/activities", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", body["message"])

	payload = createPayload()
	payload["startDateTime"] = "tomorrow evening"
	w, body = doJSON(t, r, http.MethodPost, "/api/activities", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid startDateTime, expected ISO-8601", body["message"])
}

func TestListEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/activities", createPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := doJSON(t, r, http.MethodGet, "/api/activities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	activities, ok := body["activities"].([]interface{})
	require.True(t, ok)
	assert.Len(t, activities, 1)

	w, body = doJSON(t, r, http.MethodGet, "/api/activities?category=Sports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	activities, ok = body["activities"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, activities)

	// Unknown category values filter everything out instead of failing.
	w, body = doJSON(t, r, http.MethodGet, "/api/activities?category=Gaming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	activities, ok = body["activities"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, activities)
}

func TestJoinEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/activities", createPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	activityID := body["activity"].(map[string]interface{})["id"].(string)

	join := func(userID string) (*httptest.ResponseRecorder, map[string]interface{}) {
		return doJSON(t, r, http.MethodPut,
			fmt.Sprintf("/api/activities/%s/join", activityID),
			map[string]interface{}{"userId": userID})
	}

	w, body = join("user-a")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully joined activity", body["message"])
	a := body["activity"].(map[string]interface{})
	assert.Equal(t, float64(2), a["currentParticipants"])
	assert.Equal(t, "full", a["status"])

	w, body = join("user-b")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Activity is full", body["message"])

	w, body = join("user-a")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already joined this activity", body["message"])

	w, body = join("")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User ID is required", body["message"])

	w, body = doJSON(t, r, http.MethodPut, "/api/activities/no-such-id/join",
		map[string]interface{}{"userId": "user-c"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", body["message"])
}
