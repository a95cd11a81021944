package checkpoint

import (
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/ollama"
)

// PendingFile names a file awaiting analysis and why.
type PendingFile struct {
	File   string
	Reason string
}

// ErrorFile describes a persisted failed analysis.
type ErrorFile struct {
	File      string
	ErrorType string
	Message   string
}

// Summary is the project-wide checkpoint report polled by status consumers.
type Summary struct {
	Total        int
	Done         []string
	Pending      []PendingFile
	Errors       []ErrorFile
	Incompatible []string

	// SavedSeconds is the LLM time the reusable records represent, i.e.
	// how much work checkpointing avoids on the next run.
	SavedSeconds float64
}

// Summarize buckets every project file by its checkpoint state under cfg.
// Failed analyses are reported both as errors and, when the failure class is
// retryable (not rate-limit), as pending so the next run picks them up.
func (s *Store) Summarize(files []string, cfg config.Analysis) Summary {
	sum := Summary{Total: len(files)}

	for _, f := range files {
		rec, err := s.Load(f)
		if err != nil {
			sum.Pending = append(sum.Pending, PendingFile{File: f, Reason: "never analyzed"})
			continue
		}

		switch rec.Status {
		case StatusSuccess:
			if cfg.CompatibleWith(rec.Config) {
				sum.Done = append(sum.Done, f)
				sum.SavedSeconds += rec.LLMSeconds
			} else {
				sum.Incompatible = append(sum.Incompatible, f)
			}
		case StatusError:
			sum.Errors = append(sum.Errors, ErrorFile{File: f, ErrorType: rec.ErrorType, Message: rec.Error})
			if !ollama.ErrorType(rec.ErrorType).RateLimited() {
				sum.Pending = append(sum.Pending, PendingFile{File: f, Reason: "previous analysis failed: " + rec.ErrorType})
			}
		default:
			sum.Pending = append(sum.Pending, PendingFile{File: f, Reason: "status: " + rec.Status})
		}
	}
	return sum
}
