package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/config"
)

// searchFlags are shared by every command that runs expectimax.
type searchFlags struct {
	strength string
	depth    int
	maxCells int
	parallel bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strength, "strength", "", "Search preset: fast, normal, strong")
	cmd.Flags().IntVar(&f.depth, "depth", config.Default().Search.Depth, "Expectimax depth")
	cmd.Flags().IntVar(&f.maxCells, "max-cells", config.Default().Search.MaxCells, "Empty cells sampled per chance node")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "Search root moves in parallel")
}

// apply overlays the flags that were set onto cfg.Search. A preset is
// applied first so explicit flags win over it.
func (f *searchFlags) apply(cmd *cobra.Command, c *config.Config) error {
	if f.strength != "" {
		if err := config.ApplyStrength(c, config.Strength(f.strength)); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("depth") {
		c.Search.Depth = f.depth
	}
	if cmd.Flags().Changed("max-cells") {
		c.Search.MaxCells = f.maxCells
	}
	if cmd.Flags().Changed("parallel") {
		c.Search.Parallel = f.parallel
	}
	return c.Validate()
}
