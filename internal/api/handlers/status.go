package handlers

import (
	"net/http"

	"github.com/wonny/oiwatch/internal/scheduler"
	"github.com/wonny/oiwatch/internal/scheduler/jobs"
)

// SourceReporter is satisfied by *jobs.SourceProbe
type SourceReporter interface {
	Status() jobs.SourceStatus
}

// JobReporter is satisfied by *scheduler.Scheduler
type JobReporter interface {
	GetJobStats() map[string]scheduler.JobStats
}

// StatusHandler reports snapshot source health
type StatusHandler struct {
	probe SourceReporter
	jobs  JobReporter
}

// NewStatusHandler creates a status handler. Either argument may be nil when monitoring is off.
func NewStatusHandler(probe SourceReporter, stats JobReporter) *StatusHandler {
	return &StatusHandler{probe: probe, jobs: stats}
}

// StatusResponse is the body of GET /api/status
type StatusResponse struct {
	Monitoring bool                          `json:"monitoring"`
	Source     *jobs.SourceStatus            `json:"source,omitempty"`
	Jobs       map[string]scheduler.JobStats `json:"jobs"`
}

// GetStatus returns the last source probe result and job stats
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Jobs: map[string]scheduler.JobStats{}}

	if h.probe != nil {
		st := h.probe.Status()
		resp.Monitoring = true
		resp.Source = &st
	}
	if h.jobs != nil {
		resp.Jobs = h.jobs.GetJobStats()
	}

	respondJSON(w, http.StatusOK, resp)
}
