// Package config provides YAML-based configuration loading for search,
// simulation, dataset generation and storage.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/twenty48/internal/eval"
	"github.com/vovakirdan/twenty48/internal/search"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config contains all twenty48 settings.
type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Weights  eval.Weights   `yaml:"weights"`
	Simulate SimulateConfig `yaml:"simulate"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Storage  StorageConfig  `yaml:"storage"`
	Play     PlayConfig     `yaml:"play"`
	Serve    ServeConfig    `yaml:"serve"`
}

// SearchConfig defines expectimax parameters.
type SearchConfig struct {
	Depth    int  `yaml:"depth"`
	MaxCells int  `yaml:"max_cells"`
	Parallel bool `yaml:"parallel"`
}

// SimulateConfig defines batch simulation parameters.
type SimulateConfig struct {
	Agent         string `yaml:"agent"`
	Games         int    `yaml:"games"`
	Seed          int64  `yaml:"seed"`
	MaxSteps      int    `yaml:"max_steps"` // 0 = sim.DefaultMaxSteps
	Workers       int    `yaml:"workers"`   // 0 = one per CPU
	ProgressEvery int    `yaml:"progress_every"`
}

// DatasetConfig defines training sample generation.
type DatasetConfig struct {
	Games          int     `yaml:"games"`
	SampleProb     float64 `yaml:"sample_prob"`
	IncludeInvalid bool    `yaml:"include_invalid"`
	MaxSteps       int     `yaml:"max_steps"`
	MaxPow         int     `yaml:"max_pow"`
}

// StorageConfig defines where results are persisted.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// PlayConfig defines the interactive terminal UI.
type PlayConfig struct {
	Agent  string `yaml:"agent"`   // agent used by watch mode
	TickMS int    `yaml:"tick_ms"` // delay between agent moves
}

// ServeConfig defines the SSH server.
type ServeConfig struct {
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// SearchOptions converts the search section and weights to search.Options.
func (c Config) SearchOptions() search.Options {
	return search.Options{
		Depth:    c.Search.Depth,
		MaxCells: c.Search.MaxCells,
		Parallel: c.Search.Parallel,
		Weights:  c.Weights,
	}
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Search.Depth >= 0, "search.depth must be >= 0, got %d", c.Search.Depth)
	check(c.Search.MaxCells >= 1, "search.max_cells must be >= 1, got %d", c.Search.MaxCells)
	check(c.Simulate.Games >= 0, "simulate.games must be >= 0, got %d", c.Simulate.Games)
	check(c.Simulate.MaxSteps >= 0, "simulate.max_steps must be >= 0, got %d", c.Simulate.MaxSteps)
	check(c.Simulate.Workers >= 0, "simulate.workers must be >= 0, got %d", c.Simulate.Workers)
	check(c.Dataset.Games >= 0, "dataset.games must be >= 0, got %d", c.Dataset.Games)
	check(c.Dataset.SampleProb >= 0 && c.Dataset.SampleProb <= 1,
		"dataset.sample_prob must be in [0,1], got %g", c.Dataset.SampleProb)
	check(c.Dataset.MaxSteps >= 0, "dataset.max_steps must be >= 0, got %d", c.Dataset.MaxSteps)
	check(c.Dataset.MaxPow >= 1, "dataset.max_pow must be >= 1, got %d", c.Dataset.MaxPow)
	check(c.Play.TickMS > 0, "play.tick_ms must be > 0, got %d", c.Play.TickMS)

	return errors.Join(errs...)
}
