package scoring

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/fitscope/fitscope/pkg/compat"
)

// DefaultMatrixConcurrency caps the parallel fan-out of per-system fit
// computations.
const DefaultMatrixConcurrency = 4

// MatrixFilters narrows a matrix computation.
type MatrixFilters struct {
	// Provider keeps only systems declaring an integration whose name
	// contains the provider key.
	Provider string
	// MinScore drops results scoring below the threshold. Zero keeps all.
	MinScore int
}

// ComputeMatrix runs the fit computation for one app against every known
// external system. Per-system failures are logged and the system is omitted;
// one bad system never aborts the whole matrix. Results are sorted by score
// descending, ties broken by system slug ascending.
//
// The per-system computations are independent, so they fan out across a
// bounded worker pool; ordering comes from the final sort, never from
// completion order.
func (e *Engine) ComputeMatrix(ctx context.Context, tenantID, appKey string, filters *MatrixFilters) ([]*CompatibilityScore, error) {
	// Fail fast on an unknown app; per-system lookups stay best-effort.
	if _, err := e.gw.GetApp(ctx, appKey); err != nil {
		return nil, err
	}

	systems, err := e.gw.ListSystems(ctx)
	if err != nil {
		return nil, err
	}

	if filters != nil && filters.Provider != "" {
		var kept []compat.ExternalSystem
		for _, sys := range systems {
			for _, si := range sys.Integrations {
				if compat.ContainsFold(si.Name, filters.Provider) {
					kept = append(kept, sys)
					break
				}
			}
		}
		systems = kept
	}

	results := make([]*CompatibilityScore, len(systems))
	sem := make(chan struct{}, e.matrixConcurrency)
	var wg sync.WaitGroup

	for i, sys := range systems {
		wg.Add(1)
		go func(i int, slug string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			score, err := e.ComputeFit(ctx, tenantID, appKey, slug)
			if err != nil {
				log.Printf("matrix: scoring %s against %s failed, skipping: %v", appKey, slug, err)
				return
			}
			results[i] = score
		}(i, sys.Slug)
	}
	wg.Wait()

	var matrix []*CompatibilityScore
	for _, score := range results {
		if score == nil {
			continue
		}
		if filters != nil && filters.MinScore > 0 && score.TotalScore < filters.MinScore {
			continue
		}
		matrix = append(matrix, score)
	}

	sort.SliceStable(matrix, func(i, j int) bool {
		if matrix[i].TotalScore != matrix[j].TotalScore {
			return matrix[i].TotalScore > matrix[j].TotalScore
		}
		return matrix[i].SystemSlug < matrix[j].SystemSlug
	})

	return matrix, nil
}
