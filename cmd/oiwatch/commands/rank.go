package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/oiwatch/internal/board"
	"github.com/wonny/oiwatch/internal/profile"
	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/internal/snapshot"
	"github.com/wonny/oiwatch/pkg/httputil"
	"github.com/wonny/oiwatch/pkg/logger"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Fetch, rank and print one page",
	Long: `Fetch the snapshot once, rank it with a profile and print a page.

Example:
  go run ./cmd/oiwatch rank
  go run ./cmd/oiwatch rank --profile full_market --page 2
  go run ./cmd/oiwatch rank --json`,
	RunE: runRank,
}

var (
	rankProfile string
	rankPage    int
	rankJSON    bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankProfile, "profile", "", "profile name (default profile when empty)")
	rankCmd.Flags().IntVar(&rankPage, "page", 1, "page number")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the view as JSON")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// only errors interleave with the table
	if !verbose {
		cfg.LogLevel = "error"
	}
	log := logger.New(cfg)

	profiles, err := profile.Resolve(cfg)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	if _, ok := profiles.Lookup(rankProfile); !ok {
		return fmt.Errorf("unknown profile %q (have %v)", rankProfile, profiles.Names())
	}

	loader := snapshot.NewLoader(httputil.New(cfg, log), cfg.Source.URL, log)
	svc := board.NewService(loader, profiles, log)

	view, _ := svc.Build(cmd.Context(), rankProfile, ranking.ViewState{Page: rankPage})

	out := cmd.OutOrStdout()
	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	PrintView(out, view)
	return nil
}
