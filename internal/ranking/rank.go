package ranking

import (
	"errors"
	"sort"
)

// ErrUnknownMode is returned for a Mode outside Modes()
var ErrUnknownMode = errors.New("unknown ranking mode")

// Options tune a ranking run
type Options struct {
	Threshold float64 // increase_ratio gate for gated modes
	TopN      int     // 0 = unlimited
}

// DefaultOptions mirrors the dashboard's historical constants
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, TopN: 100}
}

// Rank filters, sorts and truncates records for the given mode with the default threshold
func Rank(records []SymbolRecord, mode Mode, topN int) ([]Ranked, error) {
	opts := DefaultOptions()
	opts.TopN = topN
	return RankWith(records, mode, opts)
}

// RankWith is Rank with explicit options.
// The sort is stable and descending, so ties keep snapshot order. Ranks are 1-based and dense.
func RankWith(records []SymbolRecord, mode Mode, opts Options) ([]Ranked, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}

	type candidate struct {
		record  SymbolRecord
		derived DerivedMetrics
		key     float64
	}

	kept := make([]candidate, 0, len(records))
	for _, r := range records {
		if !mode.keep(r, opts.Threshold) {
			continue
		}
		d := Derive(r)
		kept = append(kept, candidate{record: r, derived: d, key: mode.key(r, d)})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].key > kept[j].key
	})

	if opts.TopN > 0 && len(kept) > opts.TopN {
		kept = kept[:opts.TopN]
	}

	ranked := make([]Ranked, len(kept))
	for i, c := range kept {
		ranked[i] = Ranked{
			Rank:    i + 1,
			Record:  c.record,
			Derived: c.derived,
		}
	}

	return ranked, nil
}
