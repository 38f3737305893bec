// Package wsconfig is the workspace configuration record (spec.md §6): a
// static set of feature toggles and paths loaded once at startup, not
// re-read per document. Adapted from
// _examples/njenia-envgrd/internal/config/config.go's LoadConfig
// (.envgrd.config, default-on-missing-file), generalized from a single
// ignore-list to the full record SPEC_FULL.md §6 names.
package wsconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileName is the workspace config file's name, the envbind analogue of
// the teacher's .envgrd.config.
const fileName = ".envbind.config"

// Config is the full static workspace record: which features run, which
// files feed the env-value cache, how deep interpolation chains may go,
// and how aggressively resolved values are cached.
type Config struct {
	Features      FeatureToggles `yaml:"features"`
	EnvFiles      []string       `yaml:"env_files"`
	Interpolation InterpolationConfig `yaml:"interpolation"`
	Cache         CacheConfig    `yaml:"cache"`
	Ignores       IgnoresConfig  `yaml:"ignores"`
}

// FeatureToggles records optional analysis behaviors. No code outside
// this package reads them.
type FeatureToggles struct {
	CommentAwareFiltering bool `yaml:"comment_aware_filtering"`
	PreserveDefaultText   bool `yaml:"preserve_default_text"`
	ValueMasking          bool `yaml:"value_masking"`
}

// InterpolationConfig records a depth bound for env-value interpolation.
// internal/envfile does not read it.
type InterpolationConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// CacheConfig controls internal/envcache's persistence policy.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// IgnoresConfig is carried over from the teacher's ignore-rule shape,
// still meaningful for the CLI's human-readable report.
type IgnoresConfig struct {
	Missing []string `yaml:"missing"`
	Folders []string `yaml:"folders"`
}

// Default returns the configuration used when no config file is present,
// matching the teacher's "no config file, return default config" branch.
func Default() *Config {
	return &Config{
		Features: FeatureToggles{
			CommentAwareFiltering: true,
			PreserveDefaultText:   true,
			ValueMasking:          true,
		},
		EnvFiles:      []string{".env", ".env.local"},
		Interpolation: InterpolationConfig{MaxDepth: 8},
		Cache:         CacheConfig{Enabled: true, Path: ".envbind.cache"},
		Ignores: IgnoresConfig{
			Missing: []string{},
			Folders: []string{},
		},
	}
}

// Load reads .envbind.config from rootPath, falling back to Default if
// the file doesn't exist.
func Load(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, fileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wsconfig: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("wsconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ShouldIgnoreMissing reports whether varName is configured to be
// skipped when reporting missing-from-.env variables.
func (c *Config) ShouldIgnoreMissing(varName string) bool {
	for _, ignored := range c.Ignores.Missing {
		if ignored == varName {
			return true
		}
	}
	return false
}
