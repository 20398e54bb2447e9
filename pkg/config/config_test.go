package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Archive.Backend != "local" {
		t.Errorf("expected default archive backend local, got %q", cfg.Archive.Backend)
	}
	if cfg.Matrix.Concurrency == 0 {
		t.Error("expected non-zero default matrix concurrency")
	}
	if cfg.Scoring.Weights == nil {
		t.Error("expected Weights map to be initialized, got nil")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "non-existent file returns defaults",
			yaml: "", // signal: don't create a file
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Addr != ":8080" {
					t.Errorf("expected default addr, got %q", cfg.Server.Addr)
				}
			},
		},
		{
			name: "weight overrides overlay defaults",
			yaml: `
scoring:
  weights:
    capability_match: 0.5
    integration_readiness: 0.2
`,
			check: func(t *testing.T, cfg *Config) {
				w := cfg.Weights()
				if w.CapabilityWeight != 0.5 {
					t.Errorf("CapabilityWeight = %v, want 0.5", w.CapabilityWeight)
				}
				if w.ReadinessWeight != 0.2 {
					t.Errorf("ReadinessWeight = %v, want 0.2", w.ReadinessWeight)
				}
				// Untouched dimensions keep their defaults.
				if w.ComplianceWeight != 0.2 {
					t.Errorf("ComplianceWeight = %v, want default 0.2", w.ComplianceWeight)
				}
			},
		},
		{
			name: "custom compliance list",
			yaml: `
scoring:
  compliance: [GDPR, SOC2, "SAF-T NO"]
`,
			check: func(t *testing.T, cfg *Config) {
				checklist := cfg.Checklist()
				if len(checklist) != 3 {
					t.Fatalf("checklist len = %d, want 3", len(checklist))
				}
				if checklist[1].Requirement != "SOC2" {
					t.Errorf("checklist[1] = %q, want SOC2", checklist[1].Requirement)
				}
			},
		},
		{
			name: "default compliance checklist",
			yaml: "matrix:\n  min_score: 40\n",
			check: func(t *testing.T, cfg *Config) {
				checklist := cfg.Checklist()
				if len(checklist) != 2 || checklist[0].Requirement != "GDPR" {
					t.Errorf("default checklist = %+v", checklist)
				}
				if cfg.Matrix.MinScore != 40 {
					t.Errorf("MinScore = %d, want 40", cfg.Matrix.MinScore)
				}
			},
		},
		{
			name:    "unknown weight key rejected",
			yaml:    "scoring:\n  weights:\n    velocity: 0.3\n",
			wantErr: "unknown scoring weight key",
		},
		{
			name:    "bad archive backend rejected",
			yaml:    "archive:\n  backend: ftp\n",
			wantErr: "archive.backend",
		},
		{
			name:    "min_score out of range rejected",
			yaml:    "matrix:\n  min_score: 140\n",
			wantErr: "min_score",
		},
		{
			name:    "invalid yaml rejected",
			yaml:    "scoring: [not a map",
			wantErr: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.yaml != "" {
				if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(filepath.Join(root, ".fitscope"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, ".fitscope", "config.yaml")
	if err := os.WriteFile(want, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(nested); got != want {
		t.Errorf("FindConfigFile = %q, want %q", got, want)
	}
	if got := FindConfigFile(t.TempDir()); got != "" {
		t.Errorf("FindConfigFile on empty tree = %q, want empty", got)
	}
}
