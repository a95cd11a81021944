package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grafolab/grafo/internal/config"
)

// recordSuffix is appended to a source file's relative path to form its
// checkpoint record name.
const recordSuffix = "_analise.json"

// Store reads and writes per-file analysis records under Root. Files inside
// AnalysisRoot keep their directory structure in the store; files outside it
// are stored flat by base name. The store does no cross-run locking;
// concurrent runs against the same Root are not supported.
type Store struct {
	Root         string
	AnalysisRoot string
}

// NewStore creates a store rooted at root for source files under analysisRoot.
func NewStore(root, analysisRoot string) *Store {
	return &Store{Root: root, AnalysisRoot: analysisRoot}
}

// PathFor returns the record path for a source file.
func (s *Store) PathFor(file string) string {
	if s.AnalysisRoot != "" {
		if rel, err := filepath.Rel(s.AnalysisRoot, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(s.Root, rel+recordSuffix)
		}
	}
	return filepath.Join(s.Root, filepath.Base(file)+recordSuffix)
}

// Load reads the record for a source file. A missing record returns
// os.ErrNotExist (wrapped).
func (s *Store) Load(file string) (*Record, error) {
	data, err := os.ReadFile(s.PathFor(file))
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint for %s: %w", file, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing checkpoint for %s: %w", file, err)
	}
	return &rec, nil
}

// Valid returns the prior record for file if it can be reused under cfg:
// the record exists, its status is success, and its stored configuration is
// compatible with the current one.
func (s *Store) Valid(file string, cfg config.Analysis) (*Record, bool) {
	rec, err := s.Load(file)
	if err != nil {
		return nil, false
	}
	if rec.Status != StatusSuccess {
		return nil, false
	}
	if !cfg.CompatibleWith(rec.Config) {
		return nil, false
	}
	return rec, true
}

// FilterPending returns the files that still need analysis: those with no
// record, a non-success record, or a record produced under an incompatible
// configuration. The scan is read-only and touches the filesystem once per
// file.
func (s *Store) FilterPending(files []string, cfg config.Analysis) []string {
	var pending []string
	for _, f := range files {
		if _, ok := s.Valid(f, cfg); !ok {
			pending = append(pending, f)
		}
	}
	return pending
}

// Save repairs and persists a record, then re-parses the written file to
// guarantee the store never holds unreadable JSON. If the round trip fails,
// an emergency minimal record is written in its place. The record path is
// returned.
func (s *Store) Save(rec *Record) (string, error) {
	rec.repair()

	path := s.PathFor(rec.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating checkpoint directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding checkpoint for %s: %w", rec.File, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing checkpoint %s: %w", path, err)
	}

	if _, err := s.Load(rec.File); err != nil {
		emergency, merr := json.MarshalIndent(emergencyRecord(rec.File, rec.Config), "", "  ")
		if merr != nil {
			return "", fmt.Errorf("building emergency checkpoint for %s: %w", rec.File, merr)
		}
		if werr := os.WriteFile(path, emergency, 0o644); werr != nil {
			return "", fmt.Errorf("writing emergency checkpoint %s: %w", path, werr)
		}
	}
	return path, nil
}

// CleanErrors removes records whose status is error and whose error type is
// in types, so those files are re-analyzed from scratch on the next run. It
// returns how many records were removed.
func (s *Store) CleanErrors(files []string, types []string) (int, error) {
	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	removed := 0
	for _, f := range files {
		rec, err := s.Load(f)
		if err != nil || rec.Status != StatusError || !wanted[rec.ErrorType] {
			continue
		}
		if err := os.Remove(s.PathFor(f)); err != nil {
			return removed, fmt.Errorf("removing checkpoint for %s: %w", f, err)
		}
		removed++
	}
	return removed, nil
}
