// Package graph defines the node/edge call-graph structure produced by the
// analysis engine, plus the normalization that turns loosely-shaped JSON
// coming back from an LLM into that structure.
package graph

import (
	"fmt"
)

// Node is a single element of the call graph. ID is the only required
// field; everything else is presentational or informational.
type Node struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"`
	Type     string         `json:"type,omitempty"`
	Group    string         `json:"group,omitempty"`
	Shape    string         `json:"shape,omitempty"`
	Color    string         `json:"color,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Edge is a directed connection between two nodes. LLMs emit edges either as
// source/target or from/to pairs; both normalize to Source/Target here.
type Edge struct {
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Label    string         `json:"label,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Graph is the validated {nodes, edges, meta} structure extracted from an
// LLM response and persisted inside checkpoint records.
type Graph struct {
	Nodes []Node         `json:"nodes"`
	Edges []Edge         `json:"edges"`
	Meta  map[string]any `json:"meta"`
}

// Empty returns a structurally valid graph with no content.
func Empty() Graph {
	return Graph{Nodes: []Node{}, Edges: []Edge{}, Meta: map[string]any{}}
}

// EnsureLists replaces nil slices and maps with empty ones so the graph
// always marshals as {"nodes":[],"edges":[],"meta":{}} rather than nulls.
func (g *Graph) EnsureLists() {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	if g.Meta == nil {
		g.Meta = map[string]any{}
	}
}

// edgeSampleSize is how many leading edges ValidRaw inspects for a usable
// source/target pair. Checking a sample keeps validation O(1) on huge
// responses while still rejecting payloads whose edges carry no endpoints.
const edgeSampleSize = 3

// ValidRaw reports whether a decoded JSON value has the expected graph
// structure: a map with "nodes" and "edges" list entries, where a non-empty
// edge list exposes source/target (or from/to) on at least one sampled edge.
func ValidRaw(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	nodes, ok := m["nodes"].([]any)
	if !ok {
		return false
	}
	edges, ok := m["edges"].([]any)
	if !ok {
		return false
	}
	_ = nodes

	if len(edges) == 0 {
		return true
	}
	limit := edgeSampleSize
	if len(edges) < limit {
		limit = len(edges)
	}
	for _, raw := range edges[:limit] {
		e, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if hasKeys(e, "source", "target") || hasKeys(e, "from", "to") {
			return true
		}
	}
	return false
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// FromRaw normalizes a decoded JSON value into a Graph. It returns false if
// the value does not pass ValidRaw. Nodes without any usable identifier are
// dropped; edge naming conventions are unified to source/target; fields the
// structure does not model are preserved under Metadata.
func FromRaw(v any) (Graph, bool) {
	if !ValidRaw(v) {
		return Graph{}, false
	}
	m := v.(map[string]any)
	g := Empty()

	for _, raw := range m["nodes"].([]any) {
		nm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		n := nodeFromRaw(nm)
		if n.ID == "" {
			continue
		}
		g.Nodes = append(g.Nodes, n)
	}
	for _, raw := range m["edges"].([]any) {
		em, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		e, ok := edgeFromRaw(em)
		if !ok {
			continue
		}
		g.Edges = append(g.Edges, e)
	}
	if meta, ok := m["meta"].(map[string]any); ok {
		g.Meta = meta
	}
	return g, true
}

// nodeFromRaw builds a Node from a raw JSON object, synthesizing the ID from
// the first of id, name, label, or title that is present.
func nodeFromRaw(m map[string]any) Node {
	n := Node{
		ID:    stringField(m, "id", "name", "label", "title"),
		Label: stringField(m, "label"),
		Type:  stringField(m, "type"),
		Group: stringField(m, "group"),
		Shape: stringField(m, "shape"),
		Color: stringField(m, "color"),
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	if md, ok := m["metadata"].(map[string]any); ok {
		n.Metadata = md
	} else {
		extra := extraFields(m, "id", "name", "label", "title", "type", "group", "shape", "color", "metadata")
		if len(extra) > 0 {
			n.Metadata = extra
		}
	}
	return n
}

func edgeFromRaw(m map[string]any) (Edge, bool) {
	e := Edge{
		Source: stringField(m, "source", "from"),
		Target: stringField(m, "target", "to"),
		Label:  stringField(m, "label", "type"),
	}
	if e.Source == "" || e.Target == "" {
		return Edge{}, false
	}
	if md, ok := m["metadata"].(map[string]any); ok {
		e.Metadata = md
	}
	return e, true
}

// stringField returns the first of the named keys present in m, rendered as
// a string. Numeric identifiers are accepted and formatted.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return trimFloat(s)
		}
	}
	return ""
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func extraFields(m map[string]any, known ...string) map[string]any {
	extra := make(map[string]any)
	for k, v := range m {
		skip := false
		for _, kn := range known {
			if k == kn {
				skip = true
				break
			}
		}
		if !skip {
			extra[k] = v
		}
	}
	return extra
}
