package studyset

import "testing"

func TestConfigTargets(t *testing.T) {
	tests := []struct {
		size                        int
		standalone, compound, group int
	}{
		{20, 8, 8, 4},
		{10, 4, 4, 2},
		{15, 6, 6, 3},
		{3, 1, 1, 1},
		{1, 0, 0, 1},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.SetSize = tt.size
		s, c, g := cfg.Targets()
		if s != tt.standalone || c != tt.compound || g != tt.group {
			t.Errorf("Targets(%d) = %d/%d/%d, want %d/%d/%d",
				tt.size, s, c, g, tt.standalone, tt.compound, tt.group)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative generations", func(c *Config) { c.Generations = -1 }},
		{"zero size", func(c *Config) { c.SetSize = 0 }},
		{"mutation above one", func(c *Config) { c.MutationRate = 1.5 }},
		{"shares over one", func(c *Config) { c.StandaloneShare, c.CompoundShare = 0.7, 0.7 }},
		{"negative share", func(c *Config) { c.CompoundShare = -0.1 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		if cfg.Validate() == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
