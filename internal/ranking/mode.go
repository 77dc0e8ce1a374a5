package ranking

import (
	"fmt"
	"strings"
)

// Mode is a named (filter, sort key) policy applied to a snapshot
type Mode string

const (
	// ModePercentGate keeps increase_ratio > threshold, sorted by increase_ratio
	ModePercentGate Mode = "percent_gate"
	// ModeFullMarket keeps everything, sorted by OI delta value
	ModeFullMarket Mode = "full_market"
	// ModeGatedValue keeps increase_ratio > threshold, sorted by OI delta value
	ModeGatedValue Mode = "gated_value"
)

// DefaultThreshold is the increase_ratio gate used when none is configured
const DefaultThreshold = 0.03

// Modes lists every supported mode in display order
func Modes() []Mode {
	return []Mode{ModePercentGate, ModeFullMarket, ModeGatedValue}
}

// ParseMode accepts the canonical names plus a few spellings seen in URLs
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent_gate", "percent", "pct":
		return ModePercentGate, nil
	case "full_market", "full", "market", "full_market_value":
		return ModeFullMarket, nil
	case "gated_value", "gated", "value":
		return ModeGatedValue, nil
	}
	return "", fmt.Errorf("unknown ranking mode %q", s)
}

// Valid reports whether m is one of the supported modes
func (m Mode) Valid() bool {
	switch m {
	case ModePercentGate, ModeFullMarket, ModeGatedValue:
		return true
	}
	return false
}

// Gated reports whether the mode filters on increase_ratio
func (m Mode) Gated() bool {
	return m == ModePercentGate || m == ModeGatedValue
}

// SortKey names the metric a mode sorts by
func (m Mode) SortKey() string {
	if m == ModePercentGate {
		return "increase_ratio"
	}
	return "oi_delta_value"
}

func (m Mode) keep(r SymbolRecord, threshold float64) bool {
	if !m.Gated() {
		return true
	}
	// absent ratio cannot pass a comparison
	return r.IncreaseRatio != nil && *r.IncreaseRatio > threshold
}

func (m Mode) key(r SymbolRecord, d DerivedMetrics) float64 {
	if m == ModePercentGate {
		if r.IncreaseRatio == nil {
			return 0
		}
		return *r.IncreaseRatio
	}
	return d.OIDeltaValue
}
