package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/lexicon/internal/logger"
)

// ErrClassificationUnavailable marks a classification that fell back to the
// default result. It is logged, never returned to callers.
var ErrClassificationUnavailable = errors.New("answer classification unavailable")

const DefaultTimeout = 15 * time.Second

// Service wraps a Classifier with a timeout and a fallback.
type Service struct {
	classifier Classifier
	timeout    time.Duration
	log        *logger.Logger
}

// NewService returns a service using classifier. A nil classifier makes
// every call return the fallback; timeout <= 0 uses DefaultTimeout.
func NewService(classifier Classifier, timeout time.Duration, log *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{classifier: classifier, timeout: timeout, log: log}
}

// Classify never fails. Provider errors, timeouts and unusable answers
// produce Fallback(correct, submitted).
func (s *Service) Classify(ctx context.Context, correct, submitted string) Result {
	if s.classifier == nil {
		return Fallback(correct, submitted)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.classifier.Classify(ctx, correct, submitted)
	if err == nil && !res.Category.Valid() {
		err = fmt.Errorf("unknown category %q", res.Category)
	}
	if err != nil {
		s.log.Warn("answer classification failed, using fallback",
			"error", fmt.Errorf("%w: %w", ErrClassificationUnavailable, err),
		)
		return Fallback(correct, submitted)
	}
	return res
}

// Fallback is the result used when no model answer is available.
func Fallback(correct, submitted string) Result {
	return Result{
		Category:  CategoryLexicalChoice,
		Rationale: fmt.Sprintf("Answer %q differs from the expected answer %q.", submitted, correct),
		Fallback:  true,
	}
}
