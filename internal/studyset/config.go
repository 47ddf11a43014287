package studyset

import (
	"fmt"
	"math"
)

// Config tunes the genetic search.
type Config struct {
	PopulationSize  int
	Generations     int
	SetSize         int
	MutationRate    float64
	StandaloneShare float64
	CompoundShare   float64
}

// DefaultConfig returns the standard search settings: 30 individuals,
// 10 generations and 20 items split 40/40/20.
func DefaultConfig() Config {
	return Config{
		PopulationSize:  30,
		Generations:     10,
		SetSize:         20,
		MutationRate:    0.2,
		StandaloneShare: 0.4,
		CompoundShare:   0.4,
	}
}

// Targets returns the per-kind sizes. Groups get whatever the two floors
// leave over.
func (c Config) Targets() (standalone, compound, group int) {
	standalone = floorShare(c.SetSize, c.StandaloneShare)
	compound = floorShare(c.SetSize, c.CompoundShare)
	group = c.SetSize - standalone - compound
	return standalone, compound, group
}

// floorShare absorbs float error so that 0.4*20 is 8, not 7.
func floorShare(n int, share float64) int {
	return int(math.Floor(float64(n)*share + 1e-9))
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize < 1:
		return fmt.Errorf("population size must be positive, got %d", c.PopulationSize)
	case c.Generations < 0:
		return fmt.Errorf("generations must not be negative, got %d", c.Generations)
	case c.SetSize < 1:
		return fmt.Errorf("set size must be positive, got %d", c.SetSize)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("mutation rate must be within [0,1], got %v", c.MutationRate)
	case c.StandaloneShare < 0 || c.CompoundShare < 0 || c.StandaloneShare+c.CompoundShare > 1:
		return fmt.Errorf("shares must be non-negative and sum to at most 1, got %v and %v", c.StandaloneShare, c.CompoundShare)
	}
	return nil
}
