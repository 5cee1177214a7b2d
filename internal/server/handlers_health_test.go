package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil, newRecordingHub())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	err := srv.handleHealth(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "development", body["environment"])

	ts, err := time.Parse(time.RFC3339, body["timestamp"])
	require.NoError(t, err, "timestamp must be RFC3339")
	assert.True(t, ts.Equal(testTime))
}

func TestHandleHealth_ProductionEnvironment(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"
	srv := newTestServer(t, cfg, newRecordingHub())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleHealth(c))
	assert.Contains(t, rec.Body.String(), `"environment":"production"`)
}

func TestHandleStats(t *testing.T) {
	srv := newTestServer(t, nil, newRecordingHub())

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	err := srv.handleStats(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["connections"])
	assert.Equal(t, float64(100), body["max_connections"])
}
