package config

import "fmt"

// Strength names a search preset.
type Strength string

const (
	StrengthFast   Strength = "fast"
	StrengthNormal Strength = "normal"
	StrengthStrong Strength = "strong"
)

// Strengths lists the presets in increasing cost.
var Strengths = []Strength{StrengthFast, StrengthNormal, StrengthStrong}

// ApplyStrength modifies the search section based on a preset.
// An empty preset leaves cfg unchanged.
func ApplyStrength(cfg *Config, s Strength) error {
	switch s {
	case "":
	case StrengthFast:
		cfg.Search.Depth = 2
		cfg.Search.MaxCells = 3
		cfg.Search.Parallel = false
	case StrengthNormal:
		cfg.Search.Depth = 3
		cfg.Search.MaxCells = 4
	case StrengthStrong:
		cfg.Search.Depth = 4
		cfg.Search.MaxCells = 6
		cfg.Search.Parallel = true // Root moves are independent
	default:
		return fmt.Errorf("%w: unknown strength %q (want fast, normal or strong)", ErrInvalidConfig, s)
	}
	return nil
}
