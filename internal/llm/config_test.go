package llm

import "testing"

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(envMap(map[string]string{
		"LEXICON_LLM_PROVIDER":       "openrouter",
		"LEXICON_OPENROUTER_API_KEY": "sk-or",
		"LEXICON_OPENROUTER_MODEL":   "openai/gpt-4o-mini",
		"LEXICON_GEMINI_MODEL":       "gemini-2.5-flash",
	}))
	if cfg.Provider != ProviderOpenRouter {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "sk-or" || cfg.OpenRouter.Model != "openai/gpt-4o-mini" {
		t.Errorf("OpenRouter = %+v", cfg.OpenRouter)
	}
	if cfg.OpenRouter.BaseURL != defaultOpenRouterBaseURL {
		t.Errorf("OpenRouter.BaseURL = %q, want default", cfg.OpenRouter.BaseURL)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.Selected().APIKey != "sk-or" {
		t.Errorf("Selected() = %+v", cfg.Selected())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
		ok   bool
	}{
		{"none", map[string]string{}, "", false},
		{"openai only", map[string]string{"OPENAI_API_KEY": "k"}, ProviderOpenAI, true},
		{"gemini wins", map[string]string{"OPENAI_API_KEY": "k", "GEMINI_API_KEY": "g"}, ProviderGemini, true},
		{"openrouter", map[string]string{"OPENROUTER_API_KEY": "r"}, ProviderOpenRouter, true},
	}
	for _, tt := range tests {
		cfg, ok := DiscoverConfig(envMap(tt.env))
		if ok != tt.ok || cfg.Provider != tt.want {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", tt.name, cfg.Provider, ok, tt.want, tt.ok)
		}
		if ok && cfg.Validate() != nil {
			t.Errorf("%s: discovered config does not validate", tt.name)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{ProviderGemini, true},
		{ProviderAnthropic, true},
		{ProviderMock, false},
		{"llama", true},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Provider = tt.provider
		if err := cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%s) = %v, wantErr %v", tt.provider, err, tt.wantErr)
		}
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.0-flash")
	if c == nil {
		t.Fatal("gemini-2.0-flash has no price")
	}
	if got := c.Cost(1_000_000, 1_000_000); got < 0.4999 || got > 0.5001 {
		t.Errorf("Cost = %v, want 0.5", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Error("unknown model should have no price")
	}
}
