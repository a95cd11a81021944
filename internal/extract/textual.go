package extract

import (
	"regexp"

	"github.com/grafolab/grafo/internal/graph"
)

// functionCallRe matches function-call-shaped tokens like foo(...) in prose.
var functionCallRe = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^)]*\)`)

// maxTextualNodes caps how many nodes the textual heuristic synthesizes so
// a chatty response does not explode into a meaningless hairball.
const maxTextualNodes = 10

// extractTextual is the last-resort heuristic: when no JSON survives, scan
// the prose for function-call tokens, synthesize one node per unique token,
// and chain them with sequential edges. The result is tagged so consumers
// can tell a reconstructed graph from a parsed one.
func extractTextual(raw string) (graph.Graph, bool) {
	var names []string
	seen := make(map[string]bool)
	for _, m := range functionCallRe.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if len(name) <= 2 || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) == maxTextualNodes {
			break
		}
	}
	if len(names) == 0 {
		return graph.Graph{}, false
	}

	g := graph.Empty()
	for i, name := range names {
		g.Nodes = append(g.Nodes, graph.Node{
			ID:       name,
			Label:    name,
			Type:     "function",
			Metadata: map[string]any{"pos": 100 + i*10},
		})
	}
	for i := 0; i < len(g.Nodes)-1; i++ {
		g.Edges = append(g.Edges, graph.Edge{
			Source: g.Nodes[i].ID,
			Target: g.Nodes[i+1].ID,
			Label:  "sequence",
		})
	}
	g.Meta["parse_status"] = "textual_fallback"
	g.Meta["extraction_method"] = "regex_textual"
	return g, true
}
