package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Profile is an analysis profile loaded from a TOML file. Zero-valued fields
// are "not set" and leave the session configuration untouched, so a profile
// only needs to name the parameters it overrides.
type Profile struct {
	Model               string   `toml:"model"`
	Temperature         *float64 `toml:"temperature"`
	ContextSize         int      `toml:"context_size"`
	Level               string   `toml:"level"`
	IncludeComments     *bool    `toml:"include_comments"`
	AnalyzeDependencies *bool    `toml:"analyze_dependencies"`
	Language            string   `toml:"language"`
	LineLimit           int      `toml:"line_limit"`
	PromptTemplate      string   `toml:"prompt_template"`
}

// LoadProfile reads and parses an analysis profile from path.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}

// Apply returns a copy of cfg with the profile's set fields applied.
func (p Profile) Apply(cfg Config) Config {
	if p.Model != "" {
		cfg.Model = p.Model
	}
	if p.Temperature != nil {
		cfg.Temperature = *p.Temperature
	}
	if p.ContextSize > 0 {
		cfg.ContextSize = p.ContextSize
	}
	if p.Level != "" {
		cfg.Level = p.Level
	}
	if p.IncludeComments != nil {
		cfg.IncludeComments = *p.IncludeComments
	}
	if p.AnalyzeDependencies != nil {
		cfg.AnalyzeDependencies = *p.AnalyzeDependencies
	}
	if p.Language != "" {
		cfg.Language = p.Language
	}
	if p.LineLimit > 0 {
		cfg.LineLimit = p.LineLimit
	}
	if p.PromptTemplate != "" {
		cfg.PromptTemplate = p.PromptTemplate
	}
	return cfg
}
