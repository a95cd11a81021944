package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/grafolab/grafo/internal/config"
)

// collectFiles resolves the analysis batch: explicit file arguments are kept
// as-is, directories are walked recursively, and everything is filtered to
// the extensions of the configured language. With no arguments the inspect
// directory is walked.
func collectFiles(args []string, cfg config.Config) ([]string, error) {
	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.InspectDir}
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	valid, _ := config.SplitByExtension(files, cfg.Language)
	sort.Strings(valid)
	return valid, nil
}
