// Package config loads and validates the YAML run configuration for the
// backtest CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/tidemark-lab/tidemark/internal/types"
)

// Run describes a single backtest submission: a symbol plus a strategy
// parameter set.
type Run struct {
	Symbol   string               `yaml:"symbol" json:"symbol" validate:"required"`
	Strategy types.StrategyParams `yaml:"strategy" json:"strategy" validate:"required"`
}

// Config is the top-level run configuration.
type Config struct {
	// DataDir is the directory holding per-symbol CSV price files.
	DataDir string `yaml:"data_dir" json:"data_dir" validate:"required"`
	// MaxConcurrentBacktests caps the executor's worker pool; zero uses the
	// executor default.
	MaxConcurrentBacktests int `yaml:"max_concurrent_backtests" json:"max_concurrent_backtests" validate:"gte=0"`
	// LogLevel is one of debug, info, warn, error. Empty means info.
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Runs     []Run  `yaml:"runs" json:"runs" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the structural constraints and every run's strategy
// parameters.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for i, run := range c.Runs {
		if err := run.Strategy.Validate(); err != nil {
			return fmt.Errorf("invalid config: run %d (%s): %w", i, run.Symbol, err)
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the configuration file.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for the tidemark backtest runner"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
