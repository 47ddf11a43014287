package grading

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/logger"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// Ledger stores graded answers.
type Ledger interface {
	RecordAnswer(ctx context.Context, key spacedrep.Key, answer string, correct bool) (*spacedrep.ReviewRecord, error)
}

// Classifier labels wrong answers and never fails. *diagnosis.Service
// implements it.
type Classifier interface {
	Classify(ctx context.Context, correct, submitted string) diagnosis.Result
}

// Result is the outcome of grading one answer.
type Result struct {
	Key       spacedrep.Key
	Correct   bool
	Expected  string
	Submitted string
	// Error is set for wrong answers.
	Error *AnswerError
}

type Service struct {
	catalog    catalog.Catalog
	ledger     Ledger
	classifier Classifier
	errors     ErrorRepo
	clock      spacedrep.Clock
	log        *logger.Logger
}

// NewService wires a grader. errs may be nil, in which case classified
// errors are only returned, not stored.
func NewService(cat catalog.Catalog, ledger Ledger, classifier Classifier, errs ErrorRepo, clock spacedrep.Clock, log *logger.Logger) *Service {
	if clock == nil {
		clock = spacedrep.SystemClock
	}
	return &Service{
		catalog:    cat,
		ledger:     ledger,
		classifier: classifier,
		errors:     errs,
		clock:      clock,
		log:        log,
	}
}

// Grade checks submitted against the item's canonical text. The attempt is
// written to the ledger before a wrong answer is classified, so a failed or
// cancelled classification never loses it. Once the attempt is recorded a
// Result is always returned. If ctx ends during classification the result
// carries whatever verdict the classifier produced, usually the fallback,
// and no error row is stored.
func (s *Service) Grade(ctx context.Context, userID int64, ref ItemRef, submitted string) (*Result, error) {
	expected, err := CanonicalText(ctx, s.catalog, ref)
	if err != nil {
		return nil, err
	}
	correct := Matches(expected, submitted)
	key := spacedrep.Key{UserID: userID, Kind: ref.Kind, ItemID: ref.ID}

	if _, err := s.ledger.RecordAnswer(ctx, key, submitted, correct); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}
	res := &Result{Key: key, Correct: correct, Expected: expected, Submitted: submitted}
	if correct {
		return res, nil
	}

	var verdict diagnosis.Result
	if s.classifier != nil {
		verdict = s.classifier.Classify(ctx, expected, submitted)
	} else {
		verdict = diagnosis.Fallback(expected, submitted)
	}
	cancelled := ctx.Err() != nil
	res.Error = &AnswerError{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      ref.Kind,
		ItemID:    ref.ID,
		Correct:   expected,
		Submitted: submitted,
		Category:  verdict.Category,
		Rationale: verdict.Rationale,
		Fallback:  verdict.Fallback,
		CreatedAt: s.clock(),
	}
	switch {
	case cancelled:
		s.log.Warn("answer error not stored, context ended", "key", key.String(), "error", ctx.Err())
	case s.errors != nil:
		if err := s.errors.Append(ctx, res.Error); err != nil {
			s.log.Error("store answer error", "key", key.String(), "error", err)
		}
	}
	s.log.Debug("answer graded",
		"key", key.String(),
		"correct", correct,
		"category", string(verdict.Category),
	)
	return res, nil
}
