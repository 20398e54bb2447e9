package render

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func scoreColor(score int) string {
	if noColor() {
		return ""
	}
	switch {
	case score >= 70:
		return colorGreen
	case score >= 40:
		return colorYellow
	default:
		return colorRed
	}
}

func severityColor(sev intgraph.Severity) string {
	if noColor() {
		return ""
	}
	switch sev {
	case intgraph.SeverityHigh:
		return colorRed
	case intgraph.SeverityMedium:
		return colorYellow
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) RenderScore(w io.Writer, score *scoring.CompatibilityScore) error {
	sc := scoreColor(score.TotalScore)

	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("Fitscope: %s × %s — Score %s/100",
			score.AppKey, score.SystemName, colored(fmt.Sprintf("%d", score.TotalScore), sc))))

	fmt.Fprintln(w, "Breakdown:")
	for _, comp := range score.Breakdown.Components() {
		fmt.Fprintf(w, "  %3d × %.2f  %s\n", comp.Score, comp.Weight, bold(comp.Key))
		maxDetails := 5
		if len(comp.Details) < maxDetails {
			maxDetails = len(comp.Details)
		}
		for i := 0; i < maxDetails; i++ {
			fmt.Fprintf(w, "             %s\n", dim(detailLine(comp.Details[i])))
		}
		if len(comp.Details) > 5 {
			fmt.Fprintf(w, "             %s\n", dim(fmt.Sprintf("... and %d more", len(comp.Details)-5)))
		}
	}
	fmt.Fprintln(w)

	if len(score.Explain) > 0 {
		fmt.Fprintln(w, "Notes:")
		for _, line := range score.Explain {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	if len(score.Recommendations) > 0 {
		fmt.Fprintln(w, "Suggested fixes:")
		for _, rec := range score.Recommendations {
			fmt.Fprintf(w, "  • %s\n", rec)
		}
		fmt.Fprintln(w)
	}

	if len(score.Badges) > 0 {
		fmt.Fprintf(w, "Badges: %s\n", strings.Join(score.Badges, ", "))
	}
	return nil
}

func detailLine(d scoring.Detail) string {
	switch d.Kind {
	case scoring.DetailCapability:
		if d.Available {
			return d.Name + ": supported"
		}
		return d.Name + ": not supported"
	case scoring.DetailIntegrationPair:
		parts := []string{}
		if d.HasWorkflow {
			parts = append(parts, "workflow")
		}
		if d.HasMCPRef {
			parts = append(parts, "mcp")
		}
		if d.HasActiveSecret {
			parts = append(parts, "secret")
		}
		if len(parts) == 0 {
			return d.Category + "/" + d.Name + ": no signals"
		}
		return d.Category + "/" + d.Name + ": " + strings.Join(parts, "+")
	case scoring.DetailCompliance:
		if d.Available {
			return d.Name + ": met"
		}
		return d.Name + ": missing"
	default:
		return fmt.Sprintf("%s: %.0f", d.Name, d.Score)
	}
}

func (r *TerminalRenderer) RenderMatrix(w io.Writer, appKey string, scores []scoring.CompatibilityScore) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("Fitscope matrix for %s (%d systems)", appKey, len(scores))))
	if len(scores) == 0 {
		fmt.Fprintln(w, "No systems matched.")
		return nil
	}

	width := 0
	for _, s := range scores {
		if len(s.SystemName) > width {
			width = len(s.SystemName)
		}
	}
	for _, s := range scores {
		bar := strings.Repeat("█", s.TotalScore/5)
		fmt.Fprintf(w, "  %-*s  %s %s\n", width, s.SystemName,
			colored(fmt.Sprintf("%3d", s.TotalScore), scoreColor(s.TotalScore)), dim(bar))
	}
	return nil
}

func (r *TerminalRenderer) RenderGraph(w io.Writer, g *intgraph.Graph) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("Integration graph for tenant %s", g.TenantID)))

	types := make([]string, 0, len(g.Stats.NodesByType))
	for typ := range g.Stats.NodesByType {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	counts := make([]string, 0, len(types))
	for _, typ := range types {
		counts = append(counts, fmt.Sprintf("%d %s", g.Stats.NodesByType[intgraph.NodeType(typ)], typ))
	}
	fmt.Fprintf(w, "Nodes: %s — %d edges\n\n", strings.Join(counts, ", "), g.Stats.EdgeCount)

	for _, n := range g.Nodes {
		marker := colored("●", statusDot(n.Status))
		line := fmt.Sprintf("  %s %-14s %s", marker, n.Type, bold(n.Label))
		if len(n.Badges) > 0 {
			line += " " + dim("["+strings.Join(n.Badges, ",")+"]")
		}
		if n.Status != intgraph.StatusOK {
			line += " " + dim("("+string(n.Status)+")")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Risk: %d missing secrets, %d orphan workflows, %d unused systems\n",
		g.Stats.MissingSecrets, g.Stats.OrphanWorkflows, g.Stats.UnusedSystems)
	return nil
}

func statusDot(s intgraph.NodeStatus) string {
	if noColor() {
		return ""
	}
	switch s {
	case intgraph.StatusOK, intgraph.StatusRecommended:
		return colorGreen
	case intgraph.StatusIdle, intgraph.StatusOrphan:
		return colorYellow
	case intgraph.StatusMissing, intgraph.StatusRisk:
		return colorRed
	default:
		return ""
	}
}

func (r *TerminalRenderer) RenderRisks(w io.Writer, signals []intgraph.RiskSignal) error {
	if len(signals) == 0 {
		fmt.Fprintln(w, "No risk signals.")
		return nil
	}

	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("%d risk signals", len(signals))))
	for _, s := range signals {
		fmt.Fprintf(w, "  %s %s — %s\n",
			colored(strings.ToUpper(string(s.Severity)), severityColor(s.Severity)),
			bold(s.NodeID), s.Message)
		if s.Remediation != "" {
			for _, line := range wrapText(s.Remediation, 70) {
				fmt.Fprintf(w, "    %s\n", dim(line))
			}
		}
	}
	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
