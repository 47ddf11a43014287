package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Gemini     ProviderConfig
	OpenAI     ProviderConfig
	Anthropic  ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig
}

// ProviderConfig holds the credentials of one provider. Gemini ignores
// BaseURL.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultConfig returns Gemini with cheap default models everywhere.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenAI:     ProviderConfig{Model: "gpt-mini"},
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2,
		},
	}
}

// ConfigFromEnv overlays LEXICON_* variables on the defaults. A nil getenv
// reads the process environment.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "LEXICON_LLM_PROVIDER")
	for name, pc := range cfg.providers() {
		prefix := "LEXICON_" + envName(name)
		set(&pc.APIKey, prefix+"_API_KEY")
		set(&pc.Model, prefix+"_MODEL")
		set(&pc.BaseURL, prefix+"_BASE_URL")
	}
	return cfg
}

// DiscoverConfig looks for the vendors' own API key variables and picks the
// first provider found, in the order Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig(getenv func(string) string) (Config, bool) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	candidates := []struct {
		name string
		key  string
		dst  *ProviderConfig
	}{
		{ProviderGemini, "GEMINI_API_KEY", &cfg.Gemini},
		{ProviderOpenAI, "OPENAI_API_KEY", &cfg.OpenAI},
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &cfg.Anthropic},
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &cfg.OpenRouter},
	}
	for _, c := range candidates {
		if k := getenv(c.key); k != "" {
			cfg.Provider = c.name
			c.dst.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	pc, ok := c.providers()[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("LEXICON_%s_API_KEY is required for the %s provider", envName(c.Provider), c.Provider)
	}
	return nil
}

// Selected returns the settings of the chosen provider.
func (c Config) Selected() ProviderConfig {
	if pc, ok := c.providers()[c.Provider]; ok {
		return *pc
	}
	return ProviderConfig{}
}

// SetAPIKey sets the key of the selected provider.
func (c *Config) SetAPIKey(key string) {
	if pc, ok := c.providers()[c.Provider]; ok {
		pc.APIKey = key
	}
}

func (c *Config) providers() map[string]*ProviderConfig {
	return map[string]*ProviderConfig{
		ProviderGemini:     &c.Gemini,
		ProviderOpenAI:     &c.OpenAI,
		ProviderAnthropic:  &c.Anthropic,
		ProviderOpenRouter: &c.OpenRouter,
	}
}

func envName(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI"
	case ProviderAnthropic:
		return "ANTHROPIC"
	case ProviderOpenRouter:
		return "OPENROUTER"
	default:
		return "GEMINI"
	}
}
