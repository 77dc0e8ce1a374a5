// Package board builds one page of the OI dashboard from a freshly fetched snapshot.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/oiwatch/internal/profile"
	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/internal/snapshot"
	"github.com/wonny/oiwatch/pkg/logger"
)

// SnapshotLoader is satisfied by *snapshot.Loader
type SnapshotLoader interface {
	Load(ctx context.Context) *snapshot.Snapshot
}

// NoticeKind tells the renderer which message to show
type NoticeKind string

const (
	NoticeNone        NoticeKind = ""
	NoticeNoData      NoticeKind = "no_data"
	NoticeSchema      NoticeKind = "schema_mismatch"
	NoticeQuiet       NoticeKind = "quiet_market"
	NoticeUnknownView NoticeKind = "unknown_profile"
)

// View is a single rendered page of the ranked snapshot
type View struct {
	Profile    profile.Profile      `json:"profile"`
	Items      []ranking.Ranked     `json:"items"`
	TotalItems int                  `json:"total_items"`
	TotalPages int                  `json:"total_pages"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	Notice     string               `json:"notice,omitempty"`
	NoticeKind NoticeKind           `json:"notice_kind,omitempty"`
	FetchedAt  time.Time            `json:"fetched_at"`
	Report     snapshot.ParseReport `json:"report"`
}

// HasNext reports whether a later page exists
func (v *View) HasNext() bool { return v.Page < v.TotalPages }

// HasPrev reports whether an earlier page exists
func (v *View) HasPrev() bool { return v.Page > 1 }

// Service runs the ranking pipeline once per request
// ⭐ SSOT: 대시보드 뷰 구성은 이 서비스에서만
type Service struct {
	loader   SnapshotLoader
	profiles *profile.File
	logger   *logger.Logger
}

// NewService creates a board service
func NewService(loader SnapshotLoader, profiles *profile.File, log *logger.Logger) *Service {
	return &Service{
		loader:   loader,
		profiles: profiles,
		logger:   log.WithComponent("board"),
	}
}

// Profiles returns the configured profiles
func (s *Service) Profiles() *profile.File {
	return s.profiles
}

// Build fetches the snapshot, ranks it with the named profile and slices the page in state.
// It never fails; problems surface as a notice on an empty view.
// The returned state holds the clamped page for the caller to store.
func (s *Service) Build(ctx context.Context, profileName string, state ranking.ViewState) (*View, ranking.ViewState) {
	p, ok := s.profiles.Lookup(profileName)
	if !ok {
		def, _ := s.profiles.Lookup("")
		s.logger.WithField("profile", profileName).Warn("Unknown profile requested, using default")
		v := emptyView(def, time.Now())
		v.NoticeKind = NoticeUnknownView
		v.Notice = fmt.Sprintf("Unknown view %q.", profileName)
		return v, ranking.ViewState{Page: 1}
	}

	snap := s.loader.Load(ctx)
	if snap.Empty() {
		v := emptyView(p, snap.FetchedAt)
		v.Report = snap.Report
		switch snap.Kind {
		case snapshot.KindSchemaMismatch:
			v.NoticeKind = NoticeSchema
			v.Notice = "The snapshot table is missing required columns."
		case snapshot.KindNone:
			v.NoticeKind = NoticeNoData
			v.Notice = "The snapshot is empty."
		default:
			v.NoticeKind = NoticeNoData
			v.Notice = "No data available. The snapshot source could not be reached."
		}
		return v, ranking.ViewState{Page: 1}
	}

	ranked, err := ranking.RankWith(snap.Records, p.Mode, p.Options())
	if err != nil {
		// profiles are validated on load, so this means a programming error
		s.logger.WithError(err).WithField("profile", p.Name).Error("Ranking failed")
		v := emptyView(p, snap.FetchedAt)
		v.NoticeKind = NoticeNoData
		v.Notice = "No data available."
		return v, ranking.ViewState{Page: 1}
	}

	items, totalPages := ranking.Paginate(ranked, state.Page, p.PageSize)
	next := state.Clamp(totalPages)

	v := &View{
		Profile:    p,
		Items:      items,
		TotalItems: len(ranked),
		TotalPages: totalPages,
		Page:       next.Page,
		PageSize:   p.PageSize,
		FetchedAt:  snap.FetchedAt,
		Report:     snap.Report,
	}
	if len(ranked) == 0 {
		v.NoticeKind = NoticeQuiet
		v.Notice = fmt.Sprintf("Market is quiet: no contract has an OI increase above %.0f%%.", p.Threshold*100)
	}

	s.logger.WithFields(map[string]interface{}{
		"profile":     p.Name,
		"mode":        p.Mode,
		"records":     len(snap.Records),
		"ranked":      len(ranked),
		"page":        v.Page,
		"total_pages": totalPages,
	}).Debug("Board built")

	return v, next
}

func emptyView(p profile.Profile, fetchedAt time.Time) *View {
	return &View{
		Profile:    p,
		Items:      []ranking.Ranked{},
		TotalPages: 1,
		Page:       1,
		PageSize:   p.PageSize,
		FetchedAt:  fetchedAt,
	}
}
