package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/oiwatch/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	err      error
	runs     atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@every 1m"}))
	require.NoError(t, s.AddJob(&countingJob{name: "b", schedule: "*/30 * * * * *"}))
	require.NoError(t, s.AddJob(&countingJob{name: "c", schedule: "0 * * * *"}))

	err := s.AddJob(&countingJob{name: "a", schedule: "@every 1m"})
	assert.Error(t, err)

	err = s.AddJob(&countingJob{name: "bad", schedule: "not a schedule"})
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@every 1m"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))

	_, err := s.GetJobHistory("a")
	assert.Error(t, err)
}

func TestRunJob_NoRetry(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "failing", schedule: "@every 1m", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))

	result := s.runJob(job)

	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, int32(1), job.runs.Load())

	history, err := s.GetJobHistory("failing")
	require.NoError(t, err)
	assert.Len(t, history.GetFailedResults(), 1)
}

func TestRunJob_Async(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "ok", schedule: "@every 1m"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("ok"))
	assert.Eventually(t, func() bool {
		history, err := s.GetJobHistory("ok")
		if err != nil {
			return false
		}
		_, ok := history.Last()
		return ok
	}, time.Second, 10*time.Millisecond)

	assert.Error(t, s.RunJob("missing"))
}

func TestGetJobStats(t *testing.T) {
	s := New(logger.Nop())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	job := &countingJob{name: "probe", schedule: "@every 1m"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)
	job.err = errors.New("down")
	s.runJob(job)

	stats := s.GetJobStats()
	require.Contains(t, stats, "probe")
	st := stats["probe"]

	assert.Equal(t, "@every 1m", st.Schedule)
	assert.Equal(t, 2, st.TotalRuns)
	assert.Equal(t, 1, st.SuccessCount)
	assert.Equal(t, 1, st.FailureCount)
	assert.InDelta(t, 0.5, st.SuccessRate, 1e-9)
	require.NotNil(t, st.LastRun)
	require.NotNil(t, st.LastSuccess)
	require.NotNil(t, st.LastFailure)
	assert.True(t, st.LastFailure.After(*st.LastSuccess))
	assert.Equal(t, *st.LastFailure, *st.LastRun)
	assert.Equal(t, "down", st.LastError)
}

func TestStartStop(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "fast", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	s.Stop()
}
