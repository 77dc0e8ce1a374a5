package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/oiwatch/internal/profile"
)

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Validate and list ranking profiles",
	Long: `Validate a profiles YAML file and list its profiles with the config hash.
Without --file the PROFILE_PATH env (or the built-in defaults) is used.

Example:
  go run ./cmd/oiwatch profiles --file configs/profiles.yaml`,
	RunE: runProfiles,
}

var (
	profilesFile string
)

func init() {
	rootCmd.AddCommand(profilesCmd)

	profilesCmd.Flags().StringVar(&profilesFile, "file", "", "profiles YAML path")
}

func runProfiles(cmd *cobra.Command, args []string) error {
	var (
		f   *profile.File
		err error
	)
	if profilesFile != "" {
		f, _, err = profile.Load(profilesFile)
	} else {
		cfg, cerr := loadConfig()
		if cerr != nil {
			return fmt.Errorf("load config: %w", cerr)
		}
		f, err = profile.Resolve(cfg)
	}
	if err != nil {
		return err
	}

	hash, err := profile.Hash(f)
	if err != nil {
		return fmt.Errorf("hash profiles: %w", err)
	}

	PrintProfiles(cmd.OutOrStdout(), f, hash)
	return nil
}
