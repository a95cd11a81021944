// Package config holds runtime configuration for grafo. The viper-backed
// Config is what the CLI loads and mutates through flags; Analysis is the
// immutable per-run snapshot handed to the orchestrator, so a run is never
// affected by config changes made while it executes.
package config

import "github.com/spf13/viper"

// Analysis is the per-run snapshot of analysis parameters. It is a value
// type: callers copy it, never share a pointer, and a changed configuration
// is a new value. The JSON tags match the checkpoint record wire format.
type Analysis struct {
	Model               string  `json:"llm_modelo" mapstructure:"model" toml:"model"`
	Temperature         float64 `json:"llm_temperatura" mapstructure:"temperature" toml:"temperature"`
	ContextSize         int     `json:"llm_tamanho_contexto" mapstructure:"context_size" toml:"context_size"`
	Level               string  `json:"nivel_analise" mapstructure:"level" toml:"level"`
	IncludeComments     bool    `json:"incluir_comentarios" mapstructure:"include_comments" toml:"include_comments"`
	AnalyzeDependencies bool    `json:"analisar_dependencias" mapstructure:"analyze_dependencies" toml:"analyze_dependencies"`
	Language            string  `json:"linguagem" mapstructure:"language" toml:"language"`
	LineLimit           int     `json:"limite_linhas" mapstructure:"line_limit" toml:"line_limit"`
	PromptTemplate      string  `json:"-" mapstructure:"prompt_template" toml:"prompt_template"`
}

// CompatibleWith reports whether a prior analysis produced with other can be
// reused under this configuration. Only the four fields that change the
// meaning of an analysis gate reuse; temperature, context size, and line
// limit tweaks do not invalidate earlier results.
func (a Analysis) CompatibleWith(other Analysis) bool {
	return a.Model == other.Model &&
		a.Level == other.Level &&
		a.AnalyzeDependencies == other.AnalyzeDependencies &&
		a.IncludeComments == other.IncludeComments
}

// Config holds all runtime configuration for a grafo session.
// Values are populated from .grafo.yaml, GRAFO_* env vars, and CLI flags.
type Config struct {
	OllamaURL     string `mapstructure:"ollama_url"`
	StorageDir    string `mapstructure:"storage_dir"`
	InspectDir    string `mapstructure:"inspect_dir"`
	TelemetryFile string `mapstructure:"telemetry_file"`

	Model               string  `mapstructure:"model"`
	Temperature         float64 `mapstructure:"temperature"`
	ContextSize         int     `mapstructure:"context_size"`
	Level               string  `mapstructure:"level"`
	IncludeComments     bool    `mapstructure:"include_comments"`
	AnalyzeDependencies bool    `mapstructure:"analyze_dependencies"`
	Language            string  `mapstructure:"language"`
	LineLimit           int     `mapstructure:"line_limit"`
	PromptTemplate      string  `mapstructure:"prompt_template"`

	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("ollama_url", "http://localhost:11434")
	viper.SetDefault("storage_dir", "storage/data")
	viper.SetDefault("inspect_dir", "inspecao")
	viper.SetDefault("telemetry_file", "")
	viper.SetDefault("model", "llama2")
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("context_size", 4096)
	viper.SetDefault("level", "detalhado")
	viper.SetDefault("include_comments", true)
	viper.SetDefault("analyze_dependencies", true)
	viper.SetDefault("language", "c")
	viper.SetDefault("line_limit", 1000)
	viper.SetDefault("prompt_template", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// Snapshot derives the immutable per-run Analysis value from the session
// configuration. An empty prompt template falls back to the built-in one.
func (c Config) Snapshot() Analysis {
	tmpl := c.PromptTemplate
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	return Analysis{
		Model:               c.Model,
		Temperature:         c.Temperature,
		ContextSize:         c.ContextSize,
		Level:               c.Level,
		IncludeComments:     c.IncludeComments,
		AnalyzeDependencies: c.AnalyzeDependencies,
		Language:            c.Language,
		LineLimit:           c.LineLimit,
		PromptTemplate:      tmpl,
	}
}
