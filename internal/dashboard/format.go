package dashboard

import (
	"fmt"
	"math"
	"strings"
)

// FormatMoney abbreviates v as B/M/K. Negative values keep their sign.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", sign, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s%.0fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s%.0f", sign, v)
	}
}

// SignedMoney renders a change amount as "+$1.20M" or "-$300K"
func SignedMoney(v float64) string {
	s := FormatMoney(v)
	if strings.HasPrefix(s, "-") && s != "-" {
		return "-$" + s[1:]
	}
	return "+$" + s
}

// FormatPct renders a ratio as a signed percentage with two decimals
func FormatPct(ratio float64) string {
	return fmt.Sprintf("%+.2f%%", ratio*100)
}
