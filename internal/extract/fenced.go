package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/grafolab/grafo/internal/graph"
)

// candidatePatterns enumerate where a JSON graph may hide in LLM output,
// most specific first: fenced json blocks mentioning both nodes and edges,
// then either key, then any fenced block, then brace-delimited regions
// outside fences that mention the expected keys.
var candidatePatterns = []*regexp.Regexp{
	regexp.MustCompile("(?is)```json\\s*(\\{[^`]*\"nodes\"[^`]*\"edges\"[^`]*\\})\\s*```"),
	regexp.MustCompile("(?is)```json\\s*(\\{[^`]*\"nodes\"[^`]*\\})\\s*```"),
	regexp.MustCompile("(?is)```json\\s*(\\{[^`]*\"edges\"[^`]*\\})\\s*```"),
	regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```"),
	regexp.MustCompile("(?s)```\\s*(\\{[^`]*\\})\\s*```"),
	regexp.MustCompile(`(?s)(\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\{[^{}]*"nodes"[^{}]*\}[^{}]*\})`),
	regexp.MustCompile(`(?s)(\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\{[^{}]*"edges"[^{}]*\}[^{}]*\})`),
}

// minCandidateLength filters out truncated fragments and stray one-field
// objects matched by the looser patterns.
const minCandidateLength = 50

// extractFenced collects candidate JSON regions from all patterns, cleans
// and ranks them, and returns the first candidate that parses into a valid
// graph.
func extractFenced(raw string) (graph.Graph, bool) {
	var candidates []string
	seen := make(map[string]bool)

	for _, pat := range candidatePatterns {
		for _, m := range pat.FindAllStringSubmatch(raw, -1) {
			cleaned := cleanJSON(m[1])
			if cleaned == "" || !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
				continue
			}
			if len(cleaned) < minCandidateLength {
				continue
			}
			if seen[cleaned] {
				continue
			}
			seen[cleaned] = true
			candidates = append(candidates, cleaned)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidatePriority(candidates[i]) < candidatePriority(candidates[j])
	})

	for _, c := range candidates {
		if g, ok := parseCandidate(c); ok {
			return g, true
		}
	}
	return graph.Graph{}, false
}

// candidatePriority ranks a cleaned candidate. Lower is better. Presence of
// a "name" field alongside nodes and edges is a strong signal that this is
// the intended graph payload rather than an example snippet.
func candidatePriority(candidate string) int {
	hasNodes := strings.Contains(candidate, `"nodes"`)
	hasEdges := strings.Contains(candidate, `"edges"`)
	hasName := strings.Contains(candidate, `"name"`)
	tooSmall := len(candidate) < 100

	switch {
	case hasNodes && hasEdges && hasName && !tooSmall:
		return 1
	case hasNodes && hasEdges && !tooSmall:
		return 2
	case (hasNodes || hasEdges) && !tooSmall:
		return 3
	case tooSmall:
		return 5
	default:
		return 4
	}
}

var (
	leadingNoiseRe  = regexp.MustCompile(`^[^{]*`)
	trailingNoiseRe = regexp.MustCompile(`[^}]*$`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	inlineCommentRe = regexp.MustCompile(`(^|\s)//[^}\],]*`)
	singleQuotedRe  = regexp.MustCompile(`'([^']*)'`)
	spaceCommaRe    = regexp.MustCompile(`\s*,\s*`)
)

// cleanJSON normalizes a candidate region: strips non-brace noise at the
// ends, collapses whitespace, drops inline // comments, and converts
// single-quoted strings to double-quoted ones.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = leadingNoiseRe.ReplaceAllString(s, "")
	s = trailingNoiseRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = inlineCommentRe.ReplaceAllString(s, "")
	s = singleQuotedRe.ReplaceAllString(s, `"$1"`)
	s = spaceCommaRe.ReplaceAllString(s, ",")
	return s
}
