// Package profile holds the named ranking profiles a dashboard can show.
package profile

import (
	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/pkg/config"
)

// File is the top level of a profiles YAML document
type File struct {
	Default  string    `yaml:"default" json:"default"`
	Profiles []Profile `yaml:"profiles" json:"profiles"`
}

// Profile is one ranking view: a mode plus its thresholds and page sizing
type Profile struct {
	Name      string       `yaml:"name" json:"name"`
	Title     string       `yaml:"title" json:"title"`
	Mode      ranking.Mode `yaml:"mode" json:"mode"`
	Threshold float64      `yaml:"threshold" json:"threshold"`
	TopN      int          `yaml:"top_n" json:"top_n"`
	PageSize  int          `yaml:"page_size" json:"page_size"`
}

// Options converts the profile into ranking options
func (p Profile) Options() ranking.Options {
	return ranking.Options{Threshold: p.Threshold, TopN: p.TopN}
}

// Lookup finds a profile by name. An empty name resolves to the default profile.
func (f *File) Lookup(name string) (Profile, bool) {
	if name == "" {
		name = f.Default
	}
	for _, p := range f.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Names lists the profile names in file order
func (f *File) Names() []string {
	names := make([]string, len(f.Profiles))
	for i, p := range f.Profiles {
		names[i] = p.Name
	}
	return names
}

// Defaults builds one profile per ranking mode from the env configuration.
// The configured mode becomes the default profile.
func Defaults(cfg *config.Config) *File {
	titles := map[ranking.Mode]string{
		ranking.ModePercentGate: "OI increase above threshold",
		ranking.ModeFullMarket:  "Full market by OI value increase",
		ranking.ModeGatedValue:  "OI value increase, gated by ratio",
	}

	f := &File{Default: cfg.Ranking.Mode}
	for _, m := range ranking.Modes() {
		f.Profiles = append(f.Profiles, Profile{
			Name:      string(m),
			Title:     titles[m],
			Mode:      m,
			Threshold: cfg.Ranking.Threshold,
			TopN:      cfg.Ranking.TopN,
			PageSize:  cfg.Ranking.PageSize,
		})
	}
	return f
}
