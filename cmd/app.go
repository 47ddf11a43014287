package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/config"
	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/engine"
	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/logger"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/studyset"
)

// app holds what a command needs once config, logging and the store are up.
type app struct {
	cfg    config.Config
	log    *logger.Logger
	store  *store.Store
	engine *engine.Engine
}

// openStore loads config, builds the logger and opens the database.
func openStore(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &app{cfg: cfg, log: log, store: st}, nil
}

// openApp is openStore plus the engine. LLM problems are reported and the
// engine falls back to the default classification.
func openApp(cmd *cobra.Command) (*app, error) {
	a, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	var classifier diagnosis.Classifier
	if a.cfg.LLMEnabled {
		provider, err := llm.NewProvider(cmd.Context(), a.cfg.LLM, a.store.LLMEvents(), a.log.With("component", "llm"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Wrong answers will get the default classification.")
		} else {
			ccfg := diagnosis.DefaultClassifierConfig()
			ccfg.Language = a.cfg.ExplanationLanguage
			classifier = diagnosis.NewLLMClassifier(provider, ccfg)
		}
	}

	a.engine, err = engine.New(engine.Deps{
		Catalog:         a.store.Catalog(),
		Profiles:        a.store.Profiles(),
		Reviews:         a.store.Reviews(),
		StudySets:       a.store.StudySets(),
		Errors:          a.store.AnswerErrors(),
		Classifier:      classifier,
		ClassifyTimeout: a.cfg.ClassifyTimeout,
		StudySet:        a.cfg.StudySet,
		Log:             a.log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	a.log.Sync()
	a.store.Close()
}

// userFacing rewrites errors the learner can act on.
func userFacing(err error) error {
	switch {
	case errors.Is(err, studyset.ErrMissingProfile):
		return errors.New("complete your profile before retrying")
	case errors.Is(err, studyset.ErrNoRootMatch):
		return errors.New("no items matched root")
	}
	return err
}
