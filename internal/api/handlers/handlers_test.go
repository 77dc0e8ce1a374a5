package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/oiwatch/internal/scheduler"
	"github.com/wonny/oiwatch/internal/scheduler/jobs"
)

type fakeProbe struct{ status jobs.SourceStatus }

func (f fakeProbe) Status() jobs.SourceStatus { return f.status }

type fakeJobs map[string]scheduler.JobStats

func (f fakeJobs) GetJobStats() map[string]scheduler.JobStats { return f }

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw   string
		page  int
		given bool
		ok    bool
	}{
		{"", 0, false, true},
		{"3", 3, true, true},
		{"-2", -2, true, true},
		{"abc", 0, true, false},
		{"1.5", 0, true, false},
	}

	for _, tt := range tests {
		page, given, ok := parsePage(tt.raw)
		assert.Equal(t, tt.page, page, tt.raw)
		assert.Equal(t, tt.given, given, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestDashboardURL(t *testing.T) {
	assert.Equal(t, "/", dashboardURL(""))
	assert.Equal(t, "/?profile=gated_value", dashboardURL("gated_value"))
	assert.Equal(t, "/?profile=a+b%26c", dashboardURL("a b&c"))
}

func TestGetStatus(t *testing.T) {
	checked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewStatusHandler(
		fakeProbe{status: jobs.SourceStatus{URL: "http://src", Healthy: true, Rows: 12, LastCheck: &checked, Kind: "none"}},
		fakeJobs{"source_probe": {JobName: "source_probe", TotalRuns: 4, SuccessCount: 4, SuccessRate: 1}},
	)

	rec := httptest.NewRecorder()
	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Monitoring)
	require.NotNil(t, body.Source)
	assert.True(t, body.Source.Healthy)
	assert.Equal(t, 12, body.Source.Rows)
	assert.Equal(t, 4, body.Jobs["source_probe"].TotalRuns)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusBadRequest, "bad page")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"bad page"}`, rec.Body.String())
}
