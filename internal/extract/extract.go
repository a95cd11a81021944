// Package extract recovers a structured {nodes, edges, meta} call graph from
// free-form LLM output. Extraction is a cascade of strategies tried in
// order; the first one that yields a structurally valid graph wins, and the
// cascade always produces a graph, degrading to an empty one tagged with a
// parse_status rather than failing.
package extract

import (
	"encoding/json"

	"github.com/grafolab/grafo/internal/graph"
)

// Strategy is one step of the extraction cascade: a pure function from raw
// LLM text to a candidate graph. The boolean reports whether the strategy
// produced a valid graph.
type Strategy struct {
	Name string
	Run  func(raw string) (graph.Graph, bool)
}

// DefaultStrategies returns the standard cascade, ordered from the most
// precise (fenced JSON blocks) to the loosest (textual heuristics).
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "fenced_json", Run: extractFenced},
		{Name: "brace_span", Run: extractBraceSpan},
		{Name: "textual", Run: extractTextual},
	}
}

// Extract runs the default cascade over raw. It is a total function: when
// every strategy fails it returns an empty graph whose meta records the
// failure and a preview of the unparseable response.
func Extract(raw string) graph.Graph {
	return Run(DefaultStrategies(), raw)
}

// Run applies strategies in order, returning the first valid graph.
func Run(strategies []Strategy, raw string) graph.Graph {
	for _, s := range strategies {
		if g, ok := s.Run(raw); ok {
			return g
		}
	}
	g := graph.Empty()
	g.Meta["parse_status"] = "failed"
	g.Meta["response_length"] = len(raw)
	g.Meta["response_preview"] = preview(raw, 500)
	return g
}

// parseCandidate decodes a cleaned candidate string and normalizes it into
// a graph, rejecting anything that is not structurally valid.
func parseCandidate(candidate string) (graph.Graph, bool) {
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return graph.Graph{}, false
	}
	return graph.FromRaw(v)
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
