package profile

import (
	"fmt"
)

// ValidationError names the offending field of a profiles file
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every profile and the default reference
func Validate(f *File) error {
	if len(f.Profiles) == 0 {
		return ValidationError{"profiles", "at least one profile is required"}
	}

	seen := make(map[string]bool, len(f.Profiles))
	for i, p := range f.Profiles {
		field := func(name string) string {
			return fmt.Sprintf("profiles[%d].%s", i, name)
		}

		if p.Name == "" {
			return ValidationError{field("name"), "required"}
		}
		if seen[p.Name] {
			return ValidationError{field("name"), fmt.Sprintf("duplicate %q", p.Name)}
		}
		seen[p.Name] = true

		if !p.Mode.Valid() {
			return ValidationError{field("mode"), fmt.Sprintf("unknown mode %q", p.Mode)}
		}
		if p.Threshold < 0 {
			return ValidationError{field("threshold"), "must be >= 0"}
		}
		if p.TopN < 0 {
			return ValidationError{field("top_n"), "must be >= 0"}
		}
		if p.PageSize < 1 {
			return ValidationError{field("page_size"), "must be >= 1"}
		}
	}

	if f.Default != "" && !seen[f.Default] {
		return ValidationError{"default", fmt.Sprintf("%q is not defined", f.Default)}
	}

	return nil
}
