// Package config assembles runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/studyset"
)

// ProviderNone disables answer classification.
const ProviderNone = "none"

type Config struct {
	// DB is a SQLite path or a postgres:// DSN. Empty means the default
	// data directory.
	DB      string
	LogMode string

	StudySet studyset.Config
	// Workers bounds concurrent generations in batch mode.
	Workers int

	ClassifyTimeout     time.Duration
	ExplanationLanguage string

	LLM llm.Config
	// LLMEnabled is false when no provider is configured; wrong answers
	// then get the fallback classification.
	LLMEnabled bool
}

func Default() Config {
	return Config{
		LogMode:             "dev",
		StudySet:            studyset.DefaultConfig(),
		Workers:             4,
		ClassifyTimeout:     diagnosis.DefaultTimeout,
		ExplanationLanguage: "English",
		LLM:                 llm.DefaultConfig(),
	}
}

// Load reads envFile (skipped if it does not exist) and then the process
// environment, which takes precedence.
func Load(envFile string) (Config, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	return FromEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	})
}

// FromEnv builds a config from LEXICON_* variables. Unset variables keep
// their defaults; malformed numbers are errors.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	p := parser{getenv: getenv}

	p.str(&cfg.DB, "LEXICON_DB")
	p.str(&cfg.LogMode, "LEXICON_LOG_MODE")
	p.int(&cfg.StudySet.SetSize, "LEXICON_STUDYSET_SIZE")
	p.int(&cfg.StudySet.PopulationSize, "LEXICON_STUDYSET_POPULATION")
	p.int(&cfg.StudySet.Generations, "LEXICON_STUDYSET_GENERATIONS")
	p.float(&cfg.StudySet.MutationRate, "LEXICON_STUDYSET_MUTATION_RATE")
	p.int(&cfg.Workers, "LEXICON_STUDYSET_WORKERS")
	p.duration(&cfg.ClassifyTimeout, "LEXICON_CLASSIFY_TIMEOUT")
	p.str(&cfg.ExplanationLanguage, "LEXICON_EXPLANATION_LANGUAGE")
	if p.err != nil {
		return Config{}, p.err
	}

	provider := strings.ToLower(strings.TrimSpace(getenv("LEXICON_LLM_PROVIDER")))
	cfg.LLM = llm.ConfigFromEnv(getenv)
	switch {
	case provider == ProviderNone:
		cfg.LLM.Provider = ProviderNone
	case cfg.LLM.Validate() != nil:
		// Fall back to the vendors' own key variables, e.g. GEMINI_API_KEY.
		if found, ok := llm.DiscoverConfig(getenv); ok && (provider == "" || provider == found.Provider) {
			cfg.LLM.Provider = found.Provider
			cfg.LLM.SetAPIKey(found.Selected().APIKey)
		}
	}
	cfg.LLMEnabled = cfg.LLM.Provider != ProviderNone && cfg.LLM.Validate() == nil
	return cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	if err := c.StudySet.Validate(); err != nil {
		return fmt.Errorf("study set: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.ClassifyTimeout <= 0 {
		return fmt.Errorf("classify timeout must be positive, got %s", c.ClassifyTimeout)
	}
	return nil
}

// parser records the first malformed variable.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v := strings.TrimSpace(p.getenv(key))
	return v, v != ""
}

func (p *parser) str(dst *string, key string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *parser) int(dst *int, key string) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.err = fmt.Errorf("%s: %q is not an integer", key, v)
			return
		}
		*dst = n
	}
}

func (p *parser) float(dst *float64, key string) {
	if v, ok := p.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.err = fmt.Errorf("%s: %q is not a number", key, v)
			return
		}
		*dst = f
	}
}

func (p *parser) duration(dst *time.Duration, key string) {
	if v, ok := p.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.err = fmt.Errorf("%s: %w", key, err)
			return
		}
		*dst = d
	}
}
