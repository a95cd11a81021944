package graph

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("test input is not valid JSON: %v", err)
	}
	return v
}

func TestValidRaw(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"MinimalValid", `{"nodes":[],"edges":[]}`, true},
		{"SourceTargetEdges", `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"b"}]}`, true},
		{"FromToEdges", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, true},
		{"MissingNodes", `{"edges":[]}`, false},
		{"MissingEdges", `{"nodes":[]}`, false},
		{"NodesNotList", `{"nodes":{},"edges":[]}`, false},
		{"EdgesNotList", `{"nodes":[],"edges":{}}`, false},
		{"EdgesWithoutEndpoints", `{"nodes":[],"edges":[{"label":"x"},{"weight":1}]}`, false},
		{"EndpointBeyondSample", `{"nodes":[],"edges":[{},{},{},{"source":"a","target":"b"}]}`, false},
		{"EndpointWithinSample", `{"nodes":[],"edges":[{},{"source":"a","target":"b"}]}`, true},
		{"NotAnObject", `[1,2,3]`, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidRaw(decode(t, tt.input)); got != tt.want {
				t.Errorf("ValidRaw(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromRawNormalizesEdgeNaming(t *testing.T) {
	t.Parallel()
	g, ok := FromRaw(decode(t, `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b","type":"call"}]}`))
	if !ok {
		t.Fatal("FromRaw rejected valid input")
	}
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(g.Edges))
	}
	e := g.Edges[0]
	if e.Source != "a" || e.Target != "b" {
		t.Errorf("edge = %+v, want source=a target=b", e)
	}
	if e.Label != "call" {
		t.Errorf("label = %q, want call (taken from type)", e.Label)
	}
}

func TestFromRawSynthesizesNodeID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"FromID", `{"nodes":[{"id":"main"}],"edges":[]}`, "main"},
		{"FromName", `{"nodes":[{"name":"init"}],"edges":[]}`, "init"},
		{"FromLabel", `{"nodes":[{"label":"setup"}],"edges":[]}`, "setup"},
		{"FromTitle", `{"nodes":[{"title":"teardown"}],"edges":[]}`, "teardown"},
		{"NumericID", `{"nodes":[{"id":42}],"edges":[]}`, "42"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, ok := FromRaw(decode(t, tt.input))
			if !ok || len(g.Nodes) != 1 {
				t.Fatalf("FromRaw failed: ok=%v nodes=%d", ok, len(g.Nodes))
			}
			if g.Nodes[0].ID != tt.want {
				t.Errorf("ID = %q, want %q", g.Nodes[0].ID, tt.want)
			}
			if g.Nodes[0].Label == "" {
				t.Error("label should default to the synthesized ID")
			}
		})
	}
}

func TestFromRawDropsUnidentifiableNodes(t *testing.T) {
	t.Parallel()
	g, ok := FromRaw(decode(t, `{"nodes":[{"type":"mystery"},{"id":"ok"}],"edges":[]}`))
	if !ok {
		t.Fatal("FromRaw rejected valid input")
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "ok" {
		t.Errorf("nodes = %+v, want only the identifiable node", g.Nodes)
	}
}

func TestFromRawPreservesExtraFieldsAsMetadata(t *testing.T) {
	t.Parallel()
	g, ok := FromRaw(decode(t, `{"nodes":[{"id":"a","pos":100,"weight":2}],"edges":[],"meta":{"lang":"c"}}`))
	if !ok {
		t.Fatal("FromRaw rejected valid input")
	}
	md := g.Nodes[0].Metadata
	if md["pos"] != float64(100) || md["weight"] != float64(2) {
		t.Errorf("metadata = %v, want pos and weight preserved", md)
	}
	if g.Meta["lang"] != "c" {
		t.Errorf("meta = %v, want lang preserved", g.Meta)
	}
}

func TestEnsureListsMarshalsEmptyCollections(t *testing.T) {
	t.Parallel()
	var g Graph
	g.EnsureLists()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"nodes":[],"edges":[],"meta":{}}`
	if string(data) != want {
		t.Errorf("marshaled = %s, want %s", data, want)
	}
}
