package commands

import (
	"fmt"
	"io"

	"github.com/wonny/oiwatch/internal/board"
	"github.com/wonny/oiwatch/internal/dashboard"
	"github.com/wonny/oiwatch/internal/profile"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	heavyRule = "═══════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────"
)

// PrintView prints one board page as an aligned table
func PrintView(w io.Writer, v *board.View) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "  %s (%s)\n", v.Profile.Title, v.Profile.Name)
	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "  Contracts : %d\n", v.TotalItems)
	fmt.Fprintf(w, "  Page      : %d / %d\n", v.Page, v.TotalPages)
	fmt.Fprintf(w, "  Sorted by : %s\n", v.Profile.Mode.SortKey())
	fmt.Fprintln(w, lightRule)

	if v.Notice != "" {
		fmt.Fprintf(w, "  %s\n", v.Notice)
		fmt.Fprintln(w, heavyRule)
		return
	}

	fmt.Fprintf(w, "%5s  %-16s %10s %14s %12s\n", "RANK", "SYMBOL", "OI %", "OI Δ VALUE", "MCAP")
	for _, card := range dashboard.Cards(v) {
		ratio := card.Ratio
		if !card.HasRatio {
			ratio = "-"
		}
		fmt.Fprintf(w, "%5d  %-16s %10s %14s %12s\n",
			card.Rank, card.Symbol, ratio, card.Delta, "$"+card.MarketCap)
	}
	fmt.Fprintln(w, heavyRule)
}

// PrintProfiles prints the profile list and its hash
func PrintProfiles(w io.Writer, f *profile.File, hash string) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "  Profiles  : %d\n", len(f.Profiles))
	fmt.Fprintf(w, "  Hash      : %s\n", hash)
	fmt.Fprintln(w, lightRule)

	for _, p := range f.Profiles {
		marker := " "
		if p.Name == f.Default {
			marker = "*"
		}
		topN := "all"
		if p.TopN > 0 {
			topN = fmt.Sprintf("%d", p.TopN)
		}
		fmt.Fprintf(w, "%s %-16s %-13s threshold=%-7s top=%-4s page=%d  %s\n",
			marker, p.Name, p.Mode, fmt.Sprintf("%.2f%%", p.Threshold*100), topN, p.PageSize, p.Title)
	}
	fmt.Fprintln(w, heavyRule)
}
