package config

import (
	_ "embed"

	"github.com/vovakirdan/twenty48/internal/eval"
	"github.com/vovakirdan/twenty48/internal/search"
)

//go:embed defaults/twenty48.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Depth:    search.DefaultDepth,
			MaxCells: search.DefaultMaxCells,
		},
		Weights: eval.DefaultWeights(),
		Simulate: SimulateConfig{
			Agent:         "expectimax",
			Games:         100,
			MaxSteps:      20000,
			ProgressEvery: 10,
		},
		Dataset: DatasetConfig{
			Games:      200,
			SampleProb: 1.0,
			MaxPow:     15,
		},
		Storage: StorageConfig{
			DBPath: "~/.twenty48/twenty48.db",
		},
		Play: PlayConfig{
			Agent:  "expectimax",
			TickMS: 150,
		},
		Serve: ServeConfig{
			Addr:    ":2222",
			HostKey: ".ssh/twenty48_ed25519",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
