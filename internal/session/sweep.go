package session

import (
	"context"

	"github.com/wonny/oiwatch/pkg/logger"
)

// SweepJob evicts expired sessions from a MemoryStore on a schedule
type SweepJob struct {
	store  *MemoryStore
	logger *logger.Logger
}

// NewSweepJob creates the sweep job
func NewSweepJob(store *MemoryStore, log *logger.Logger) *SweepJob {
	return &SweepJob{store: store, logger: log.WithComponent("session_sweep")}
}

// Name returns the job name
func (j *SweepJob) Name() string {
	return "session_sweep"
}

// Schedule returns the cron schedule expression
func (j *SweepJob) Schedule() string {
	return "@every 10m"
}

// Run evicts expired sessions
func (j *SweepJob) Run(ctx context.Context) error {
	if n := j.store.Sweep(); n > 0 {
		j.logger.WithFields(map[string]interface{}{
			"evicted":   n,
			"remaining": j.store.Len(),
		}).Debug("Expired sessions evicted")
	}
	return nil
}
