// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/fraud-metrics/pkg/constants"
	"github.com/iwvelando/fraud-metrics/pkg/costmodel"
	"github.com/iwvelando/fraud-metrics/pkg/dataset"
	"github.com/iwvelando/fraud-metrics/pkg/threshold"
	"github.com/iwvelando/fraud-metrics/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for fraud-metrics.
type Configuration struct {
	Input      InputConfig      `yaml:"input,omitempty"`
	Evaluation EvaluationConfig `yaml:"evaluation,omitempty"`
	Cost       CostConfig       `yaml:"cost,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty"`
}

// InputConfig locates the prediction export and maps its columns.
type InputConfig struct {
	Path    string        `yaml:"path,omitempty"`
	Columns ColumnsConfig `yaml:"columns,omitempty"`
}

// ColumnsConfig overrides the CSV header names of the prediction export.
// Empty fields fall back to the pipeline's standard names.
type ColumnsConfig struct {
	Actual      string `yaml:"actual,omitempty"`
	Predicted   string `yaml:"predicted,omitempty"`
	Probability string `yaml:"probability,omitempty"`
	Amount      string `yaml:"amount,omitempty"`
	Time        string `yaml:"time,omitempty"`
}

// EvaluationConfig controls the fixed decision rule and the optimizer sweep.
type EvaluationConfig struct {
	DecisionThreshold float64 `yaml:"decisionThreshold,omitempty"`
	Optimize          bool    `yaml:"optimize,omitempty"`
}

// CostConfig holds the business cost parameters.
type CostConfig struct {
	PerFalsePositive        float64 `yaml:"perFalsePositive,omitempty"`
	FalseNegativeMultiplier float64 `yaml:"falseNegativeMultiplier,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds the evaluation API options.
type ServerConfig struct {
	Address        string `yaml:"address,omitempty"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return unmarshalConfiguration(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory source, e.g. a request body.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return unmarshalConfiguration(v)
}

func unmarshalConfiguration(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// DefaultConfiguration returns a Configuration carrying only defaults, for
// callers that supply every input programmatically.
func DefaultConfiguration() *Configuration {
	configuration := &Configuration{}
	configuration.ApplyDefaults()
	return configuration
}

// ApplyDefaults fills unset fields with the application defaults.
func (c *Configuration) ApplyDefaults() {
	if c.Evaluation.DecisionThreshold == 0 {
		c.Evaluation.DecisionThreshold = constants.DefaultDecisionThreshold
	}
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = constants.DefaultMaxUploadSizeBytes
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// ValidateConfiguration checks the configuration for values that are legal
// but suspicious and returns human-readable warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	grid := threshold.Grid()
	warnings = append(warnings, validation.ValidateDecisionThreshold(c.Evaluation.DecisionThreshold, grid[len(grid)-1])...)

	if c.Cost.PerFalsePositive == 0 && c.Cost.FalseNegativeMultiplier == 0 {
		warnings = append(warnings, "both cost parameters are zero; every threshold will score a total cost of 0")
	}

	return warnings
}

// CostParameters converts the cost section into costmodel parameters.
func (c *Configuration) CostParameters() costmodel.Parameters {
	return costmodel.Parameters{
		PerFalsePositive:        c.Cost.PerFalsePositive,
		FalseNegativeMultiplier: c.Cost.FalseNegativeMultiplier,
	}
}

// DatasetColumns converts the column overrides into dataset column names,
// falling back to the standard export headers.
func (c *Configuration) DatasetColumns() dataset.Columns {
	columns := dataset.DefaultColumns()
	if c.Input.Columns.Actual != "" {
		columns.Actual = c.Input.Columns.Actual
	}
	if c.Input.Columns.Predicted != "" {
		columns.Predicted = c.Input.Columns.Predicted
	}
	if c.Input.Columns.Probability != "" {
		columns.Probability = c.Input.Columns.Probability
	}
	if c.Input.Columns.Amount != "" {
		columns.Amount = c.Input.Columns.Amount
	}
	if c.Input.Columns.Time != "" {
		columns.Time = c.Input.Columns.Time
	}
	return columns
}
