// Package config handles loading and managing Fitscope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fitscope/fitscope/pkg/scoring"
)

// Config is the top-level configuration shared by the CLI and the daemon.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
	Matrix  MatrixConfig  `yaml:"matrix"`
	Server  ServerConfig  `yaml:"server"`
	Archive ArchiveConfig `yaml:"archive"`
}

// ScoringConfig tunes the fit calculators. Weights overlays the default
// dimension weights by component key; compliance replaces the default
// checklist when non-empty.
type ScoringConfig struct {
	Weights    map[string]float64 `yaml:"weights"`
	Compliance []string           `yaml:"compliance"`
}

// MatrixConfig controls matrix fan-out.
type MatrixConfig struct {
	Concurrency int `yaml:"concurrency"`
	MinScore    int `yaml:"min_score"`
}

// ServerConfig controls the daemon's HTTP listener.
type ServerConfig struct {
	Addr    string   `yaml:"addr"`
	APIKeys []string `yaml:"api_keys"`
}

// ArchiveConfig selects where graph exports are archived.
type ArchiveConfig struct {
	Backend string `yaml:"backend"` // "local", "gcs", or "s3"
	Bucket  string `yaml:"bucket"`
	Dir     string `yaml:"dir"` // local backend only
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: map[string]float64{},
		},
		Matrix: MatrixConfig{
			Concurrency: scoring.DefaultMatrixConcurrency,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Archive: ArchiveConfig{
			Backend: "local",
			Dir:     "exports",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Matrix.Concurrency < 0 {
		return fmt.Errorf("matrix.concurrency must be >= 0, got %d", c.Matrix.Concurrency)
	}
	if c.Matrix.MinScore < 0 || c.Matrix.MinScore > 100 {
		return fmt.Errorf("matrix.min_score must be in [0,100], got %d", c.Matrix.MinScore)
	}
	switch c.Archive.Backend {
	case "", "local", "gcs", "s3":
	default:
		return fmt.Errorf("archive.backend must be local, gcs, or s3, got %q", c.Archive.Backend)
	}
	for key := range c.Scoring.Weights {
		switch key {
		case "capability_match", "integration_readiness", "compliance", "ecosystem_maturity":
		default:
			return fmt.Errorf("unknown scoring weight key %q", key)
		}
	}
	return nil
}

// Weights materializes the effective scoring weights: defaults overlaid
// with any per-dimension overrides from the file.
func (c *Config) Weights() scoring.Weights {
	w := scoring.Defaults()
	if v, ok := c.Scoring.Weights["capability_match"]; ok {
		w.CapabilityWeight = v
	}
	if v, ok := c.Scoring.Weights["integration_readiness"]; ok {
		w.ReadinessWeight = v
	}
	if v, ok := c.Scoring.Weights["compliance"]; ok {
		w.ComplianceWeight = v
	}
	if v, ok := c.Scoring.Weights["ecosystem_maturity"]; ok {
		w.MaturityWeight = v
	}
	return w
}

// Checklist materializes the compliance checklist: the default GDPR +
// SAF-T NO pair unless the file names its own requirement list.
func (c *Config) Checklist() []scoring.ComplianceCheck {
	if len(c.Scoring.Compliance) == 0 {
		return scoring.DefaultComplianceChecklist()
	}
	return scoring.ComplianceChecklistFor(c.Scoring.Compliance)
}

// FindConfigFile looks for .fitscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".fitscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
