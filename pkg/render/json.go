package render

import (
	"encoding/json"
	"io"

	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/scoring"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *JSONRenderer) RenderScore(w io.Writer, score *scoring.CompatibilityScore) error {
	return r.encode(w, score)
}

func (r *JSONRenderer) RenderMatrix(w io.Writer, appKey string, scores []scoring.CompatibilityScore) error {
	return r.encode(w, map[string]any{"app_key": appKey, "scores": scores})
}

func (r *JSONRenderer) RenderGraph(w io.Writer, g *intgraph.Graph) error {
	return r.encode(w, g)
}

func (r *JSONRenderer) RenderRisks(w io.Writer, signals []intgraph.RiskSignal) error {
	return r.encode(w, signals)
}
