package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [files or directories]",
	Short: "Report checkpoint coverage for the project",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().Bool("errors", false, "list failed files with their error class")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	files, err := collectFiles(args, cfg)
	if err != nil {
		return err
	}

	store := checkpoint.NewStore(cfg.StorageDir, cfg.InspectDir)
	sum := store.Summarize(files, cfg.Snapshot())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total\t%d\n", sum.Total)
	fmt.Fprintf(w, "analyzed\t%d\n", len(sum.Done))
	fmt.Fprintf(w, "pending\t%d\n", len(sum.Pending))
	fmt.Fprintf(w, "failed\t%d\n", len(sum.Errors))
	fmt.Fprintf(w, "incompatible config\t%d\n", len(sum.Incompatible))
	fmt.Fprintf(w, "LLM time saved\t%.1fs\n", sum.SavedSeconds)
	if err := w.Flush(); err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool("errors"); show && len(sum.Errors) > 0 {
		fmt.Println()
		ew := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, e := range sum.Errors {
			fmt.Fprintf(ew, "%s\t%s\t%s\n", e.File, e.ErrorType, e.Message)
		}
		if err := ew.Flush(); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		for _, p := range sum.Pending {
			printer.Info(fmt.Sprintf("pending: %s (%s)", p.File, p.Reason))
		}
	}
	return nil
}
