package intgraph

import (
	"sort"
	"strings"
)

// NeighborhoodResult holds the sub-view around a focus node.
type NeighborhoodResult struct {
	Focus     string `json:"focus"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	Truncated bool   `json:"truncated,omitempty"`
}

// maxNeighborhoodNodes caps the sub-view size for very dense tenants.
const maxNeighborhoodNodes = 250

// Neighborhood does BFS from the focus node to the given depth, following
// edges in both directions. Focus supports prefix matching against node
// ids, so "SYSTEM:stripe" and "stripe" both work. Depth <= 0 defaults
// to 1. Returns nil when nothing matches.
func Neighborhood(g *Graph, focus string, depth int) *NeighborhoodResult {
	if depth <= 0 {
		depth = 1
	}

	fwd := make(map[string][]Edge)
	rev := make(map[string][]Edge)
	for _, e := range g.Edges {
		fwd[e.From] = append(fwd[e.From], e)
		rev[e.To] = append(rev[e.To], e)
	}

	visited := make(map[string]bool)
	var queue []string
	for _, n := range g.Nodes {
		if n.ID == focus || strings.HasPrefix(n.ID, focus) || strings.HasSuffix(n.ID, ":"+focus) {
			visited[n.ID] = true
			queue = append(queue, n.ID)
		}
	}
	if len(queue) == 0 {
		return nil
	}

	truncated := false
	for d := 0; d < depth && len(queue) > 0; d++ {
		var next []string
		for _, id := range queue {
			for _, e := range fwd[id] {
				if !visited[e.To] {
					visited[e.To] = true
					next = append(next, e.To)
				}
			}
			for _, e := range rev[id] {
				if !visited[e.From] {
					visited[e.From] = true
					next = append(next, e.From)
				}
			}
			if len(visited) >= maxNeighborhoodNodes {
				truncated = true
				break
			}
		}
		if truncated {
			break
		}
		queue = next
	}

	result := &NeighborhoodResult{Focus: focus, Truncated: truncated}
	for _, n := range g.Nodes {
		if visited[n.ID] {
			result.Nodes = append(result.Nodes, n)
		}
	}
	for _, e := range g.Edges {
		if visited[e.From] && visited[e.To] {
			result.Edges = append(result.Edges, e)
		}
	}
	sort.Slice(result.Nodes, func(i, j int) bool { return result.Nodes[i].ID < result.Nodes[j].ID })
	sort.Slice(result.Edges, func(i, j int) bool { return result.Edges[i].ID < result.Edges[j].ID })
	return result
}
