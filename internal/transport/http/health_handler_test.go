package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_HealthCheck(t *testing.T) {
	h := NewHealthHandler("1.2.0", []string{"stations", "prizes"})

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status        string   `json:"status"`
		Version       string   `json:"version"`
		UptimeSeconds int64    `json:"uptime_seconds"`
		Boards        []string `json:"boards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.0", resp.Version)
	assert.Equal(t, []string{"stations", "prizes"}, resp.Boards)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, int64(0))
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler("1.2.0", nil)

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.0", resp["version"])
}
