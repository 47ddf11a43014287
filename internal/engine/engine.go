// Package engine wires the review ledger, study-set generation and answer
// grading behind one facade.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/logger"
	"github.com/abhisek/lexicon/internal/profile"
	"github.com/abhisek/lexicon/internal/spacedrep"
	"github.com/abhisek/lexicon/internal/stats"
	"github.com/abhisek/lexicon/internal/studyset"
)

// Deps are the collaborators an Engine is built from.
type Deps struct {
	Catalog   catalog.Catalog
	Profiles  profile.Repo
	Reviews   spacedrep.Repo
	StudySets studyset.Repo
	// Errors stores classified answer errors. Nil keeps them in memory.
	Errors grading.ErrorRepo
	// Classifier labels wrong answers. Nil always uses the fallback label.
	Classifier      diagnosis.Classifier
	ClassifyTimeout time.Duration
	StudySet        studyset.Config
	// Clock defaults to the system clock.
	Clock spacedrep.Clock
	// Rand defaults to a freshly seeded generator per call.
	Rand studyset.RandSource
	Log  *logger.Logger
}

// Engine is the entry point for callers of the study engine.
type Engine struct {
	catalog   catalog.Catalog
	profiles  profile.Repo
	errors    grading.ErrorRepo
	ledger    *spacedrep.Service
	studySets *studyset.Service
	grader    *grading.Service
	clock     spacedrep.Clock
	log       *logger.Logger
}

// New builds an Engine from d.
func New(d Deps) (*Engine, error) {
	switch {
	case d.Catalog == nil:
		return nil, fmt.Errorf("engine: catalog is required")
	case d.Profiles == nil:
		return nil, fmt.Errorf("engine: profile repo is required")
	case d.Reviews == nil:
		return nil, fmt.Errorf("engine: review repo is required")
	case d.StudySets == nil:
		return nil, fmt.Errorf("engine: study set repo is required")
	}
	if err := d.StudySet.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if d.Clock == nil {
		d.Clock = spacedrep.SystemClock
	}
	if d.Errors == nil {
		d.Errors = grading.NewMemoryErrorRepo()
	}
	if d.ClassifyTimeout <= 0 {
		d.ClassifyTimeout = diagnosis.DefaultTimeout
	}

	ledger := spacedrep.NewService(d.Reviews, spacedrep.NewScheduler(d.Clock), d.Log.With("component", "ledger"))

	opts := []studyset.Option{
		studyset.WithClock(d.Clock),
		studyset.WithLogger(d.Log.With("component", "studyset")),
	}
	if d.Rand != nil {
		opts = append(opts, studyset.WithRandSource(d.Rand))
	}
	sets := studyset.NewService(d.Catalog, d.Profiles, ledger, d.StudySets, d.StudySet, opts...)

	classify := diagnosis.NewService(d.Classifier, d.ClassifyTimeout, d.Log.With("component", "diagnosis"))
	grader := grading.NewService(d.Catalog, ledger, classify, d.Errors, d.Clock, d.Log.With("component", "grading"))

	return &Engine{
		catalog:   d.Catalog,
		profiles:  d.Profiles,
		errors:    d.Errors,
		ledger:    ledger,
		studySets: sets,
		grader:    grader,
		clock:     d.Clock,
		log:       d.Log,
	}, nil
}

// Ledger exposes the review ledger.
func (e *Engine) Ledger() *spacedrep.Service { return e.ledger }

// Review applies a self-rating to the record for key.
func (e *Engine) Review(ctx context.Context, key spacedrep.Key, rating spacedrep.Rating) (*spacedrep.ReviewRecord, error) {
	return e.ledger.Rate(ctx, key, rating)
}

// ListDue returns up to limit graduated records of the user due now.
func (e *Engine) ListDue(ctx context.Context, userID int64, limit int) ([]spacedrep.ReviewRecord, error) {
	return e.ledger.ListDue(ctx, userID, limit)
}

// GenerateStudySet builds and stores a study set. A non-blank root selects
// every item built on that root instead of running the optimizer.
func (e *Engine) GenerateStudySet(ctx context.Context, userID int64, root string) (*studyset.StudySet, error) {
	return e.studySets.Generate(ctx, userID, root)
}

// GenerateStudySets runs GenerateStudySet for several users at once.
func (e *Engine) GenerateStudySets(ctx context.Context, userIDs []int64, workers int) ([]studyset.BatchResult, error) {
	return e.studySets.GenerateBatch(ctx, userIDs, workers)
}

// LatestStudySet returns the user's newest optimizer-built set, or the
// newest root set when root is true. It returns nil if there is none.
func (e *Engine) LatestStudySet(ctx context.Context, userID int64, root bool) (*studyset.StudySet, error) {
	if root {
		return e.studySets.LatestRoot(ctx, userID)
	}
	return e.studySets.Latest(ctx, userID)
}

// GradeAnswer checks a submitted answer and records the attempt.
func (e *Engine) GradeAnswer(ctx context.Context, userID int64, ref grading.ItemRef, submitted string) (*grading.Result, error) {
	return e.grader.Grade(ctx, userID, ref, submitted)
}

// UpdateProfile saves p and generates a fresh study set for it.
func (e *Engine) UpdateProfile(ctx context.Context, p *profile.Profile) (*studyset.StudySet, error) {
	if p == nil {
		return nil, fmt.Errorf("update profile: nil profile")
	}
	if err := e.profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile for user %d: %w", p.UserID, err)
	}
	e.log.Info("profile updated", "user_id", p.UserID, "level", p.CurrentLevel.String())
	return e.studySets.Generate(ctx, p.UserID, "")
}

// Profile returns the user's profile, or nil if none is saved.
func (e *Engine) Profile(ctx context.Context, userID int64) (*profile.Profile, error) {
	return e.profiles.Get(ctx, userID)
}

// ErrorStats summarises the user's answer errors, optionally restricted to
// one category.
func (e *Engine) ErrorStats(ctx context.Context, userID int64, only diagnosis.Category) (stats.ErrorStats, error) {
	errs, err := e.errors.ListByUser(ctx, userID)
	if err != nil {
		return stats.ErrorStats{}, fmt.Errorf("list answer errors for user %d: %w", userID, err)
	}
	recs, err := e.ledger.Records(ctx, userID)
	if err != nil {
		return stats.ErrorStats{}, err
	}
	return stats.Errors(errs, recs, only, e.clock()), nil
}

// ConfidenceStats relates the user's answer errors to their self-ratings.
func (e *Engine) ConfidenceStats(ctx context.Context, userID int64) (stats.ConfidenceStats, error) {
	errs, err := e.errors.ListByUser(ctx, userID)
	if err != nil {
		return stats.ConfidenceStats{}, fmt.Errorf("list answer errors for user %d: %w", userID, err)
	}
	recs, err := e.ledger.Records(ctx, userID)
	if err != nil {
		return stats.ConfidenceStats{}, err
	}
	return stats.Confidence(errs, recs), nil
}
