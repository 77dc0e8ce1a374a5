package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/oiwatch/pkg/config"
)

// Load reads a profiles YAML file and returns it with the raw bytes.
// Unknown keys are rejected so typos fail at startup.
func Load(path string) (*File, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read profiles: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return f, data, nil
}

// Parse decodes and validates a profiles YAML document
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	if f.Default == "" && len(f.Profiles) > 0 {
		f.Default = f.Profiles[0].Name
	}

	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Resolve returns the profiles from cfg.Ranking.ProfilePath, or the built-in
// defaults when no path is configured.
func Resolve(cfg *config.Config) (*File, error) {
	if cfg.Ranking.ProfilePath == "" {
		f := Defaults(cfg)
		return f, Validate(f)
	}
	f, _, err := Load(cfg.Ranking.ProfilePath)
	return f, err
}

// Hash is the SHA256 of the canonical JSON form.
// Struct fields keep a fixed order, so equal files hash equally.
func Hash(f *File) (string, error) {
	jsonBytes, err := json.Marshal(f)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
