package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/pkg/logger"
)

// Fetcher retrieves the raw bytes of a 2xx response.
// *httputil.Client satisfies it.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Snapshot is one fetched table, valid for a single view render
type Snapshot struct {
	Records   []ranking.SymbolRecord `json:"records"`
	FetchedAt time.Time              `json:"fetched_at"`
	Encoding  Encoding               `json:"encoding,omitempty"`
	Report    ParseReport            `json:"report"`
	Kind      Kind                   `json:"-"`
	Err       error                  `json:"-"`
}

// Empty reports whether there is nothing to rank
func (s *Snapshot) Empty() bool {
	return len(s.Records) == 0
}

// Loader fetches and parses the OI snapshot table
// ⭐ SSOT: 스냅샷 조회는 이 로더에서만
type Loader struct {
	fetcher Fetcher
	url     string
	logger  *logger.Logger
	now     func() time.Time
}

// NewLoader creates a loader for the snapshot at url
func NewLoader(fetcher Fetcher, url string, log *logger.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		url:     url,
		logger:  log.WithComponent("snapshot"),
		now:     time.Now,
	}
}

// URL returns the configured snapshot source
func (l *Loader) URL() string {
	return l.url
}

// Fetch performs one GET, decode and parse. Failures come back as *LoadError.
func (l *Loader) Fetch(ctx context.Context) (*Snapshot, error) {
	fetchedAt := l.now()

	raw, err := l.fetcher.FetchBytes(ctx, l.url)
	if err != nil {
		return nil, &LoadError{Kind: KindSourceUnavailable, Err: fmt.Errorf("%w: %w", ErrSourceUnavailable, err)}
	}

	text, enc, err := Decode(raw)
	if err != nil {
		// a failed fallback decode is reported like an unreachable source
		return nil, &LoadError{Kind: KindSourceUnavailable, Err: err}
	}

	records, report, err := Parse(text)
	if err != nil {
		return nil, &LoadError{Kind: KindSchemaMismatch, Err: err}
	}

	return &Snapshot{
		Records:   records,
		FetchedAt: fetchedAt,
		Encoding:  enc,
		Report:    report,
	}, nil
}

// Load is Fetch that never fails: on error it returns an empty snapshot tagged
// with the failure kind, and logs it.
func (l *Loader) Load(ctx context.Context) *Snapshot {
	snap, err := l.Fetch(ctx)
	if err != nil {
		kind := KindOf(err)
		log := l.logger.WithError(err).WithFields(map[string]interface{}{
			"kind": kind.String(),
			"url":  l.url,
		})
		if errors.Is(err, ErrDecode) {
			log = log.WithField("decode", true)
		}
		log.Warn("Snapshot unavailable, serving empty view")

		return &Snapshot{
			Records:   []ranking.SymbolRecord{},
			FetchedAt: l.now(),
			Kind:      kind,
			Err:       err,
		}
	}

	log := l.logger.WithFields(map[string]interface{}{
		"records":  len(snap.Records),
		"rows":     snap.Report.Rows,
		"encoding": snap.Encoding,
	})
	if snap.Report.Dropped > 0 || snap.Report.Duplicates > 0 || snap.Report.InvalidFields > 0 {
		log.WithFields(map[string]interface{}{
			"dropped":        snap.Report.Dropped,
			"duplicates":     snap.Report.Duplicates,
			"invalid_fields": snap.Report.InvalidFields,
		}).Warn("Snapshot loaded with degraded rows")
	} else {
		log.Debug("Snapshot loaded")
	}

	return snap
}
