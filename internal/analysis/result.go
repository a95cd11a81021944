package analysis

import (
	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/graph"
	"github.com/grafolab/grafo/internal/ollama"
)

// Status is the outcome of processing one file.
type Status int

const (
	// StatusSuccess means the LLM answered and a graph was extracted.
	StatusSuccess Status = iota
	// StatusError means the analysis failed; the error class is in
	// FileResult.ErrorType.
	StatusError
	// StatusEmpty means the source file had no content to analyze.
	StatusEmpty
	// StatusCheckpoint means a compatible prior record was reused and no
	// LLM call was made.
	StatusCheckpoint
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusCheckpoint:
		return "checkpoint"
	default:
		return "unknown"
	}
}

// wire maps a Status to the persisted record status. Checkpoint reuse is
// never written back; the existing record already covers it.
func (s Status) wire() string {
	switch s {
	case StatusError:
		return checkpoint.StatusError
	case StatusEmpty:
		return checkpoint.StatusEmpty
	default:
		return checkpoint.StatusSuccess
	}
}

// FileResult is the per-file outcome delivered to progress and completion
// sinks.
type FileResult struct {
	File       string
	Status     Status
	Text       string
	Graph      graph.Graph
	LLMSeconds float64
	ErrorType  ollama.ErrorType
	Err        error
}
