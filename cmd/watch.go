package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grafolab/grafo/internal/analysis"
	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/ollama"
	"github.com/grafolab/grafo/internal/ui"
	"github.com/grafolab/grafo/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Re-analyze source files as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	dir := cfg.InspectDir
	if len(args) == 1 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	emitter, err := openEmitter(cfg)
	if err != nil {
		return err
	}
	defer emitter.Close()

	client := ollama.New(cfg.OllamaURL)
	store := checkpoint.NewStore(cfg.StorageDir, cfg.InspectDir)
	orch := analysis.New(client, store, printer, emitter)

	watcher, err := watch.NewWatcher(dir, cfg.Language)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	printer.Banner()
	printer.Info(fmt.Sprintf("watching %s for %s changes, ctrl-c to stop", dir, cfg.Language))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	snapshot := cfg.Snapshot()
	for {
		select {
		case file, ok := <-watcher.Changes:
			if !ok {
				return nil
			}
			// A changed file's old record still matches the current config,
			// so drop it to force re-analysis.
			if rmErr := os.Remove(store.PathFor(file)); rmErr != nil && !os.IsNotExist(rmErr) {
				printer.Warning(rmErr.Error())
			}

			done := make(chan error, 1)
			err := orch.Start([]string{file}, snapshot, nil,
				func(_ []analysis.FileResult, err error) { done <- err })
			if err != nil {
				printer.Error(err.Error())
				continue
			}
			select {
			case runErr := <-done:
				if runErr != nil {
					printer.Error(runErr.Error())
				}
			case <-sigCh:
				orch.Stop()
				<-done
				return nil
			}

		case <-sigCh:
			return nil
		}
	}
}
