package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/ui"
)

// Failure classes that usually clear up on their own and are worth
// re-analyzing from scratch.
var defaultCleanTypes = []string{"timeout", "api_error", "vram", "rate_limit", "quota_exceeded"}

var cleanCmd = &cobra.Command{
	Use:   "clean [files or directories]",
	Short: "Remove failed checkpoint records so those files are re-analyzed",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().StringSlice("types", defaultCleanTypes, "error classes to clean")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	files, err := collectFiles(args, cfg)
	if err != nil {
		return err
	}

	types, _ := cmd.Flags().GetStringSlice("types")
	store := checkpoint.NewStore(cfg.StorageDir, cfg.InspectDir)
	removed, err := store.CleanErrors(files, types)
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("removed %d failed record(s)", removed))
	return nil
}
