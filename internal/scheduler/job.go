package scheduler

import (
	"context"
	"sync"
	"time"
)

// MaxHistory is how many results each job keeps
const MaxHistory = 100

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression
	// Examples: "*/30 * * * * *" (every 30 seconds)
	//           "@every 1m", "@hourly"
	Schedule() string
}

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory stores job execution history
type JobHistory struct {
	mu      sync.RWMutex
	results []JobResult
}

// AddResult adds a job result to history
func (h *JobHistory) AddResult(result JobResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, result)
	if len(h.results) > MaxHistory {
		h.results = h.results[len(h.results)-MaxHistory:]
	}
}

// GetLatestResults returns a copy of the latest N results, oldest first
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.results) {
		n = len(h.results)
	}
	if n <= 0 {
		return []JobResult{}
	}

	out := make([]JobResult, n)
	copy(out, h.results[len(h.results)-n:])
	return out
}

// GetFailedResults returns all failed results
func (h *JobHistory) GetFailedResults() []JobResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	failed := make([]JobResult, 0)
	for _, result := range h.results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// Counts returns the total and failed run counts
func (h *JobHistory) Counts() (total, failed int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, result := range h.results {
		if !result.Success {
			failed++
		}
	}
	return len(h.results), failed
}

// Last returns the most recent result
func (h *JobHistory) Last() (JobResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.results) == 0 {
		return JobResult{}, false
	}
	return h.results[len(h.results)-1], true
}

// LastWhere returns the start time of the most recent run with the given outcome
func (h *JobHistory) LastWhere(success bool) (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.results) - 1; i >= 0; i-- {
		if h.results[i].Success == success {
			return h.results[i].StartTime, true
		}
	}
	return time.Time{}, false
}

// GetSuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) GetSuccessRate() float64 {
	total, failed := h.Counts()
	if total == 0 {
		return 0.0
	}
	return float64(total-failed) / float64(total)
}
