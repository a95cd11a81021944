package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/ollama"
	"github.com/grafolab/grafo/internal/ui"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available on the Ollama server",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()
	client := ollama.New(cfg.OllamaURL)

	ctx := cmd.Context()
	if !client.CheckConnection(ctx) {
		return fmt.Errorf("server at %s is not reachable", cfg.OllamaURL)
	}
	printer.Success(fmt.Sprintf("connected to %s", cfg.OllamaURL))

	models, err := client.Models(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		printer.Warning("no models installed")
		return nil
	}
	for _, m := range models {
		marker := "  "
		if m == cfg.Model {
			marker = "* "
		}
		fmt.Println(marker + m)
	}
	return nil
}
