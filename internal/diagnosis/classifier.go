package diagnosis

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/abhisek/lexicon/internal/llm"
)

// Result is the classification of one wrong answer.
type Result struct {
	Category  Category
	Rationale string
	// Fallback is set when the result did not come from the model.
	Fallback bool
}

// Classifier labels the difference between an expected and a submitted
// answer.
type Classifier interface {
	Classify(ctx context.Context, correct, submitted string) (Result, error)
}

// ClassifierConfig tunes the LLM request.
type ClassifierConfig struct {
	MaxTokens   int
	Temperature float64
	// Language the rationale is written in.
	Language string
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MaxTokens:   512,
		Temperature: 0.3,
		Language:    "English",
	}
}

// LLMClassifier asks a language model for the error category.
type LLMClassifier struct {
	provider llm.Provider
	cfg      ClassifierConfig
}

func NewLLMClassifier(provider llm.Provider, cfg ClassifierConfig) *LLMClassifier {
	def := DefaultClassifierConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	return &LLMClassifier{provider: provider, cfg: cfg}
}

type classificationOutput struct {
	Category  string `json:"category"`
	Rationale string `json:"rationale"`
}

func (c *LLMClassifier) Classify(ctx context.Context, correct, submitted string) (Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeClassify)

	system, err := render(systemTemplate, struct {
		Categories []Category
		Language   string
	}{Categories, c.cfg.Language})
	if err != nil {
		return Result{}, fmt.Errorf("build classification prompt: %w", err)
	}
	user, err := render(userTemplate, struct{ Correct, Submitted string }{correct, submitted})
	if err != nil {
		return Result{}, fmt.Errorf("build classification prompt: %w", err)
	}

	req := llm.UserPrompt(system, user)
	req.Schema = ClassificationSchema
	req.MaxTokens = c.cfg.MaxTokens
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("classify answer: %w", err)
	}

	var out classificationOutput
	if err := resp.Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode classification: %w", err)
	}
	cat, ok := ParseCategory(out.Category)
	if !ok {
		return Result{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("unknown category %q", out.Category)}
	}
	return Result{Category: cat, Rationale: out.Rationale}, nil
}

var systemTemplate = template.Must(template.New("system").Parse(`You are a language learning assistant. A learner submitted a response to a vocabulary exercise and it did not match the expected answer.

Classify the single main error. Use exactly one category:
{{- range $c := .Categories}}
- {{$c}}
{{- end}}

Use "none" only if the response is an acceptable answer.
Write the rationale in {{.Language}}, one or two sentences. Explain why the answer is wrong, not only that it is a wrong translation.`))

var userTemplate = template.Must(template.New("user").Parse(`Correct answer: {{.Correct}}
Learner's answer: {{.Submitted}}`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
