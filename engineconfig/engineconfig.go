// Package engineconfig declares the HCL-backed defaults for the Monte-Carlo
// equity engine. The engine applies DefaultTrials when a request leaves its
// trial count at zero, DefaultWorkers when RunParallel gets no worker count,
// and MaxTrialRetries as its resample budget; it does not read
// DefaultConvergenceInterval or LogLevel.
package engineconfig

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// EngineConfig holds the equity engine's tunable defaults.
type EngineConfig struct {
	Engine EngineSettings `hcl:"engine,block"`
}

// EngineSettings are the fields a caller may override in an HCL file; all
// are optional and fall back to DefaultEngineConfig's values.
type EngineSettings struct {
	DefaultTrials              int    `hcl:"default_trials,optional"`
	DefaultWorkers             int    `hcl:"default_workers,optional"`
	DefaultConvergenceInterval int    `hcl:"default_convergence_interval,optional"`
	MaxTrialRetries            int    `hcl:"max_trial_retries,optional"`
	LogLevel                   string `hcl:"log_level,optional"`
}

// DefaultEngineConfig returns the engine's built-in defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Engine: EngineSettings{
			DefaultTrials:              10000,
			DefaultWorkers:             4,
			DefaultConvergenceInterval: 0,
			MaxTrialRetries:            100,
			LogLevel:                   "info",
		},
	}
}

// LoadEngineConfig loads engine configuration from an HCL file. A missing
// file is not an error; it yields the built-in defaults, matching the
// fallback behavior callers expect from a declarative config layer.
func LoadEngineConfig(filename string) (*EngineConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultEngineConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("engineconfig: parse %s: %s", filename, diags.Error())
	}

	var config EngineConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("engineconfig: decode %s: %s", filename, diags.Error())
	}

	defaults := DefaultEngineConfig()
	if config.Engine.DefaultTrials == 0 {
		config.Engine.DefaultTrials = defaults.Engine.DefaultTrials
	}
	if config.Engine.DefaultWorkers == 0 {
		config.Engine.DefaultWorkers = defaults.Engine.DefaultWorkers
	}
	if config.Engine.MaxTrialRetries == 0 {
		config.Engine.MaxTrialRetries = defaults.Engine.MaxTrialRetries
	}
	if config.Engine.LogLevel == "" {
		config.Engine.LogLevel = defaults.Engine.LogLevel
	}

	return &config, nil
}
