// Package render defines output rendering for Fitscope results.
// Implementations handle different output targets: terminal and JSON.
package render

import (
	"io"

	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/scoring"
)

// ScoreRenderer produces formatted output from a CompatibilityScore.
type ScoreRenderer interface {
	RenderScore(w io.Writer, score *scoring.CompatibilityScore) error
}

// MatrixRenderer produces formatted output from a score matrix.
type MatrixRenderer interface {
	RenderMatrix(w io.Writer, appKey string, scores []scoring.CompatibilityScore) error
}

// GraphRenderer produces formatted output from an integration graph.
type GraphRenderer interface {
	RenderGraph(w io.Writer, g *intgraph.Graph) error
}

// RiskRenderer produces formatted output from extracted risk signals.
type RiskRenderer interface {
	RenderRisks(w io.Writer, signals []intgraph.RiskSignal) error
}
