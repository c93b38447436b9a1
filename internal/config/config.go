package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Options holds the compile-time limits of a build. They come from the
// [limits] table of tact.toml, falling back to defaults for absent keys.
type Options struct {
	// StepBudget is the per-invocation ceiling every function's proven
	// step bound is checked against.
	StepBudget int `toml:"step_budget"`
	// LoopOverhead is the fixed bookkeeping cost charged per loop
	// iteration on top of the body. At least 1: the evaluator spends one
	// step per iteration, and the cost model must cover it.
	LoopOverhead int `toml:"loop_overhead"`
	// MaxDiagnostics caps how many diagnostics a compile reports before
	// truncating.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type fileConfig struct {
	Limits Options `toml:"limits"`
}

// Default returns the limits used when no tact.toml is present.
func Default() Options {
	return Options{
		StepBudget:     4096,
		LoopOverhead:   1,
		MaxDiagnostics: 64,
	}
}

// Load reads limits from a tact.toml file, layered over the defaults. A
// missing file is not an error; a malformed one is.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := fileConfig{Limits: opts}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return opts, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	opts = cfg.Limits

	if opts.StepBudget <= 0 {
		return opts, fmt.Errorf("step_budget must be positive, got %d", opts.StepBudget)
	}
	if opts.LoopOverhead < 1 {
		return opts, fmt.Errorf("loop_overhead must be at least 1, got %d", opts.LoopOverhead)
	}
	if opts.MaxDiagnostics <= 0 {
		return opts, fmt.Errorf("max_diagnostics must be positive, got %d", opts.MaxDiagnostics)
	}
	return opts, nil
}
