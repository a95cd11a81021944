package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grafolab/grafo/internal/analysis"
	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/ollama"
	"github.com/grafolab/grafo/internal/telemetry"
	"github.com/grafolab/grafo/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run [files or directories]",
	Short: "Analyze source files, skipping ones with reusable checkpoints",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("model", "", "override LLM model")
	runCmd.Flags().String("level", "", "analysis level (detalhado, resumido)")
	runCmd.Flags().String("language", "", "source language of the files")
	runCmd.Flags().Int("line-limit", 0, "override per-file line limit")
	runCmd.Flags().String("profile", "", "TOML analysis profile to apply")
	runCmd.Flags().Duration("retry-interval", 0, "override auto-pause retry interval")
	runCmd.Flags().Int("max-retries", 0, "override auto-pause retry budget")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	applyRunFlags(cmd, &cfg)

	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		profile, err := config.LoadProfile(p)
		if err != nil {
			return err
		}
		cfg = profile.Apply(cfg)
		printer.Info(fmt.Sprintf("applied profile %s", p))
	}

	files, err := collectFiles(args, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s source files found", cfg.Language)
	}

	emitter, err := openEmitter(cfg)
	if err != nil {
		return err
	}
	defer emitter.Close()

	client := ollama.New(cfg.OllamaURL)
	store := checkpoint.NewStore(cfg.StorageDir, cfg.InspectDir)
	orch := analysis.New(client, store, printer, emitter)
	if v, _ := cmd.Flags().GetDuration("retry-interval"); v > 0 {
		orch.SetRetryPolicy(v, maxRetriesOr(cmd, 10))
	} else if n := maxRetriesOr(cmd, 0); n > 0 {
		orch.SetRetryPolicy(30*time.Minute, n)
	}

	printer.Banner()
	printer.Info(fmt.Sprintf("model %s at %s, %d candidate file(s)", cfg.Model, cfg.OllamaURL, len(files)))

	done := make(chan error, 1)
	var results []analysis.FileResult
	err = orch.Start(files, cfg.Snapshot(), nil, func(res []analysis.FileResult, err error) {
		results = res
		done <- err
	})
	if err != nil {
		return err
	}

	// First interrupt asks the run to stop; a second one gives up waiting.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case runErr := <-done:
			st := orch.Status()
			printer.RunSummary(len(results), st.ElapsedSeconds, st.PausedSeconds)
			return runErr
		case <-sigCh:
			orch.Stop()
			select {
			case runErr := <-done:
				st := orch.Status()
				printer.RunSummary(len(results), st.ElapsedSeconds, st.PausedSeconds)
				return runErr
			case <-sigCh:
				return fmt.Errorf("interrupted")
			}
		}
	}
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("level"); v != "" {
		cfg.Level = v
	}
	if v, _ := cmd.Flags().GetString("language"); v != "" {
		cfg.Language = v
	}
	if v, _ := cmd.Flags().GetInt("line-limit"); v > 0 {
		cfg.LineLimit = v
	}
}

func maxRetriesOr(cmd *cobra.Command, fallback int) int {
	if v, _ := cmd.Flags().GetInt("max-retries"); v > 0 {
		return v
	}
	return fallback
}

// openEmitter opens the telemetry stream when one is configured. A nil
// emitter is a valid no-op.
func openEmitter(cfg config.Config) (*telemetry.Emitter, error) {
	if cfg.TelemetryFile == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(cfg.TelemetryFile)
}
