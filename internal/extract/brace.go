package extract

import (
	"strings"

	"github.com/grafolab/grafo/internal/graph"
)

// extractBraceSpan is the manual fallback: take everything between the first
// opening and the last closing brace, require balanced brace counts, then
// clean and parse. It rescues responses whose fences were mangled or missing
// entirely.
func extractBraceSpan(raw string) (graph.Graph, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return graph.Graph{}, false
	}

	span := raw[start : end+1]
	if strings.Count(span, "{") != strings.Count(span, "}") {
		return graph.Graph{}, false
	}
	return parseCandidate(cleanJSON(span))
}
