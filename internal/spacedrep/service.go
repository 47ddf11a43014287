package spacedrep

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/lexicon/internal/logger"
)

// Service is the review ledger. It serializes every write to a record
// through a per-record FIFO lock so ratings apply in submission order.
// Writers in other processes are detected by the repo's version check and
// the write is replayed on the newer record.
type Service struct {
	repo  Repo
	sched *Scheduler
	locks *keyedLocker
	log   *logger.Logger
}

// NewService wires a ledger. A nil scheduler uses the system clock.
func NewService(repo Repo, sched *Scheduler, log *logger.Logger) *Service {
	if sched == nil {
		sched = NewScheduler(nil)
	}
	return &Service{
		repo:  repo,
		sched: sched,
		locks: newKeyedLocker(),
		log:   log,
	}
}

// Scheduler returns the scheduler backing the ledger.
func (s *Service) Scheduler() *Scheduler {
	return s.sched
}

// Get returns the record for key, or (nil, nil) if none exists.
func (s *Service) Get(ctx context.Context, key Key) (*ReviewRecord, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	rec, err := s.repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return rec, nil
}

// RecordAnswer stores a graded answer, creating the record on the first
// one. The memory state is not touched.
func (s *Service) RecordAnswer(ctx context.Context, key Key, answer string, correct bool) (*ReviewRecord, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return s.update(ctx, key, func(rec *ReviewRecord) (*ReviewRecord, error) {
		now := s.sched.Now()
		if rec == nil {
			rec = &ReviewRecord{Key: key, CreatedAt: now}
			s.log.Debug("review record created", "key", key.String())
		}
		rec.LastAnswer = answer
		rec.LastCorrect = &correct
		rec.UpdatedAt = now
		return rec, nil
	})
}

// Rate applies a rating to an existing record. Invalid ratings are rejected
// before the record is locked or loaded.
func (s *Service) Rate(ctx context.Context, key Key, r Rating) (*ReviewRecord, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var (
		graduated bool
		entry     LogEntry
	)
	next, err := s.update(ctx, key, func(rec *ReviewRecord) (*ReviewRecord, error) {
		if rec == nil {
			return nil, fmt.Errorf("rate %s: %w", key, ErrRecordNotFound)
		}
		next, e, err := s.sched.Review(*rec, r)
		if err != nil {
			s.log.Error("review failed", "key", key.String(), "error", err)
			return nil, err
		}
		graduated = !rec.InRotation && next.InRotation
		entry = e
		return &next, nil
	})
	if err != nil {
		return nil, err
	}

	if graduated {
		s.log.Info("record graduated", "key", key.String())
	}
	s.log.Debug("record rated",
		"key", key.String(),
		"rating", r.String(),
		"phase", string(entry.ToPhase),
		"due", entry.NextDue,
	)
	return next, nil
}

// maxSaveAttempts bounds how often update reloads after losing a race with
// another process writing the same record.
const maxSaveAttempts = 8

// update runs load, apply and save for key under the record's lock. A save
// that loses to a concurrent writer is retried against the fresh record.
func (s *Service) update(ctx context.Context, key Key, apply func(*ReviewRecord) (*ReviewRecord, error)) (*ReviewRecord, error) {
	release, err := s.locks.Lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.repo.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		next, err := apply(rec)
		if err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrConflict) || attempt == maxSaveAttempts {
			return nil, fmt.Errorf("save %s: %w", key, err)
		}
		s.log.Debug("review record changed concurrently, retrying", "key", key.String(), "attempt", attempt)
	}
}

// ListDue returns up to limit graduated records of the user that are due now.
func (s *Service) ListDue(ctx context.Context, userID int64, limit int) ([]ReviewRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	recs, err := s.InRotation(ctx, userID)
	if err != nil {
		return nil, err
	}
	return DueRecords(recs, s.sched.Now(), limit), nil
}

// InRotation returns the user's graduated records.
func (s *Service) InRotation(ctx context.Context, userID int64) ([]ReviewRecord, error) {
	recs, err := s.repo.ListInRotation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list graduated records for user %d: %w", userID, err)
	}
	return recs, nil
}

// Records returns all of the user's records.
func (s *Service) Records(ctx context.Context, userID int64) ([]ReviewRecord, error) {
	recs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records for user %d: %w", userID, err)
	}
	return recs, nil
}

func validateKey(k Key) error {
	if !k.Kind.Valid() {
		return fmt.Errorf("review record %s: unknown item kind %q", k, k.Kind)
	}
	return nil
}
