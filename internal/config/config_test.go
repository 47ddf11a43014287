package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/llm"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.StudySet.SetSize)
	assert.Equal(t, 15*time.Second, cfg.ClassifyTimeout)
	assert.False(t, cfg.LLMEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"LEXICON_DB":                   "postgres://localhost/lexicon",
		"LEXICON_LOG_MODE":             "prod",
		"LEXICON_STUDYSET_SIZE":        "10",
		"LEXICON_STUDYSET_POPULATION":  "8",
		"LEXICON_STUDYSET_GENERATIONS": "3",
		"LEXICON_STUDYSET_WORKERS":     "2",
		"LEXICON_CLASSIFY_TIMEOUT":     "3s",
		"LEXICON_EXPLANATION_LANGUAGE": "Ukrainian",
		"LEXICON_LLM_PROVIDER":         "openai",
		"LEXICON_OPENAI_API_KEY":       "sk-test",
	}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/lexicon", cfg.DB)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, 10, cfg.StudySet.SetSize)
	assert.Equal(t, 8, cfg.StudySet.PopulationSize)
	assert.Equal(t, 3, cfg.StudySet.Generations)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, "Ukrainian", cfg.ExplanationLanguage)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.True(t, cfg.LLMEnabled)
}

func TestFromEnv_ProviderSelection(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    string
		enabled bool
	}{
		{"discovered", map[string]string{"ANTHROPIC_API_KEY": "k"}, llm.ProviderAnthropic, true},
		{"vendor key for explicit provider", map[string]string{"LEXICON_LLM_PROVIDER": "gemini", "GEMINI_API_KEY": "k"}, llm.ProviderGemini, true},
		{"explicit without any key", map[string]string{"LEXICON_LLM_PROVIDER": "openai", "GEMINI_API_KEY": "k"}, llm.ProviderOpenAI, false},
		{"disabled", map[string]string{"LEXICON_LLM_PROVIDER": "none", "GEMINI_API_KEY": "k"}, ProviderNone, false},
		{"mock", map[string]string{"LEXICON_LLM_PROVIDER": "mock"}, llm.ProviderMock, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromEnv(env(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LLM.Provider)
			assert.Equal(t, tt.enabled, cfg.LLMEnabled)
		})
	}
}

func TestFromEnv_Malformed(t *testing.T) {
	for _, kv := range [][2]string{
		{"LEXICON_STUDYSET_SIZE", "twenty"},
		{"LEXICON_CLASSIFY_TIMEOUT", "15"},
		{"LEXICON_STUDYSET_MUTATION_RATE", "high"},
	} {
		_, err := FromEnv(env(map[string]string{kv[0]: kv[1]}))
		assert.Error(t, err, kv[0])
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StudySet.SetSize = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEXICON_STUDYSET_SIZE=12\nLEXICON_EXPLANATION_LANGUAGE=German\n"), 0o600))
	t.Setenv("LEXICON_EXPLANATION_LANGUAGE", "Polish")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.StudySet.SetSize)
	assert.Equal(t, "Polish", cfg.ExplanationLanguage, "process environment wins")

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
