package main

import (
	"fmt"
	"os"

	"github.com/fitscope/fitscope/internal/catalog"
	"github.com/fitscope/fitscope/pkg/compat"
	"github.com/fitscope/fitscope/pkg/config"
	"github.com/fitscope/fitscope/pkg/scoring"
)

// localEnv is the CLI's offline evaluation environment: a catalog plus an
// optional tenant state file, no database.
type localEnv struct {
	gw       *compat.MemoryGateway
	engine   *scoring.Engine
	cfg      *config.Config
	tenantID string
}

func loadLocalEnv(catalogDir, statePath, configPath, tenantFlag string) (*localEnv, error) {
	if configPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			configPath = config.FindConfigFile(cwd)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(catalogDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var state *catalog.State
	if statePath != "" {
		state, err = catalog.LoadState(statePath)
		if err != nil {
			return nil, fmt.Errorf("loading tenant state: %w", err)
		}
	}

	tenantID := tenantFlag
	if tenantID == "" && state != nil {
		tenantID = state.TenantID
	}
	if tenantID == "" {
		tenantID = "local"
	}

	gw := cat.Gateway(state)
	return &localEnv{
		gw:       gw,
		engine:   scoring.NewEngineWithConfig(gw, cfg.Weights(), cfg.Checklist()).WithMatrixConcurrency(cfg.Matrix.Concurrency),
		cfg:      cfg,
		tenantID: tenantID,
	}, nil
}
