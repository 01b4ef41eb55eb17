package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("search:\n  depth: 5\nweights:\n  empty: 3.5\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Search.Depth)
	assert.Equal(t, 4, cfg.Search.MaxCells, "unset keys keep defaults")
	assert.Equal(t, 3.5, cfg.Weights.Empty)
	assert.Equal(t, 0.1, cfg.Weights.Smoothness)
	assert.Equal(t, "expectimax", cfg.Simulate.Agent)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("search: [unterminated"))
	require.Error(t, err)
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulate:\n  games: 7\n  workers: 2\n"), 0o644))

	cfg, source, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Equal(t, 7, cfg.Simulate.Games)
	assert.Equal(t, 2, cfg.Simulate.Workers)
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset:\n  sample_prob: 1.5\n"), 0o644))

	_, _, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"depth zero", func(c *Config) { c.Search.Depth = 0 }, true},
		{"negative depth", func(c *Config) { c.Search.Depth = -1 }, false},
		{"zero max cells", func(c *Config) { c.Search.MaxCells = 0 }, false},
		{"negative probability", func(c *Config) { c.Dataset.SampleProb = -0.1 }, false},
		{"probability above one", func(c *Config) { c.Dataset.SampleProb = 1.01 }, false},
		{"negative workers", func(c *Config) { c.Simulate.Workers = -2 }, false},
		{"zero tick", func(c *Config) { c.Play.TickMS = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Search.Depth = -1
	cfg.Search.MaxCells = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.depth")
	assert.Contains(t, err.Error(), "search.max_cells")
}

func TestApplyStrength(t *testing.T) {
	cfg := Default()
	require.NoError(t, ApplyStrength(&cfg, StrengthStrong))
	assert.Equal(t, 4, cfg.Search.Depth)
	assert.True(t, cfg.Search.Parallel)

	require.NoError(t, ApplyStrength(&cfg, StrengthFast))
	assert.Equal(t, 2, cfg.Search.Depth)
	assert.False(t, cfg.Search.Parallel)

	before := cfg
	require.NoError(t, ApplyStrength(&cfg, ""))
	assert.Equal(t, before, cfg)

	require.ErrorIs(t, ApplyStrength(&cfg, "insane"), ErrInvalidConfig)
}

func TestSearchOptions(t *testing.T) {
	cfg := Default()
	cfg.Weights.Score = 0.25
	opts := cfg.SearchOptions()
	assert.Equal(t, cfg.Search.Depth, opts.Depth)
	assert.Equal(t, cfg.Search.MaxCells, opts.MaxCells)
	assert.Equal(t, 0.25, opts.Weights.Score)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Search.Depth = 6
	data, err := Marshal(cfg)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
