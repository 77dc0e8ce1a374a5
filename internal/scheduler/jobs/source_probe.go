// Package jobs holds the background jobs run by the scheduler.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/oiwatch/internal/snapshot"
	"github.com/wonny/oiwatch/pkg/logger"
)

// Fetcher is satisfied by *snapshot.Loader
type Fetcher interface {
	Fetch(ctx context.Context) (*snapshot.Snapshot, error)
}

// SourceStatus is the last observed health of the snapshot source
type SourceStatus struct {
	URL         string               `json:"url"`
	Healthy     bool                 `json:"healthy"`
	LastCheck   *time.Time           `json:"last_check,omitempty"`
	LastSuccess *time.Time           `json:"last_success,omitempty"`
	Rows        int                  `json:"rows"`
	Encoding    snapshot.Encoding    `json:"encoding,omitempty"`
	Report      snapshot.ParseReport `json:"report"`
	Kind        string               `json:"kind"`
	Error       string               `json:"error,omitempty"`
}

// SourceProbe periodically fetches the snapshot to report source health.
// Its result is informational only; dashboard views always fetch their own snapshot.
type SourceProbe struct {
	fetcher  Fetcher
	url      string
	schedule string
	logger   *logger.Logger

	mu     sync.RWMutex
	status SourceStatus
}

// NewSourceProbe creates a probe job
func NewSourceProbe(fetcher Fetcher, url, schedule string, log *logger.Logger) *SourceProbe {
	return &SourceProbe{
		fetcher:  fetcher,
		url:      url,
		schedule: schedule,
		logger:   log.WithComponent("source_probe"),
		status:   SourceStatus{URL: url, Kind: snapshot.KindNone.String()},
	}
}

// Name returns the job name
func (p *SourceProbe) Name() string {
	return "source_probe"
}

// Schedule returns the cron schedule expression
func (p *SourceProbe) Schedule() string {
	return p.schedule
}

// Run fetches the snapshot once and records the outcome
func (p *SourceProbe) Run(ctx context.Context) error {
	checked := time.Now()
	snap, err := p.fetcher.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.LastCheck = &checked
	if err != nil {
		p.status.Healthy = false
		p.status.Kind = snapshot.KindOf(err).String()
		p.status.Error = err.Error()
		p.logger.WithError(err).WithField("kind", p.status.Kind).Warn("Snapshot source check failed")
		return err
	}

	p.status.Healthy = true
	p.status.LastSuccess = &checked
	p.status.Rows = len(snap.Records)
	p.status.Encoding = snap.Encoding
	p.status.Report = snap.Report
	p.status.Kind = snapshot.KindNone.String()
	p.status.Error = ""

	return nil
}

// Status returns a copy of the last observed status
func (p *SourceProbe) Status() SourceStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
