package spacedrep

import (
	"fmt"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs/v3"
)

// Scheduler advances memory states with FSRS. It holds no per-record state
// and is safe for concurrent use.
type Scheduler struct {
	fsrs  *fsrs.FSRS
	clock Clock
}

// NewScheduler creates a scheduler with the default FSRS parameters.
// A nil clock means SystemClock.
func NewScheduler(clock Clock) *Scheduler {
	return NewSchedulerWithParams(fsrs.DefaultParam(), clock)
}

// NewSchedulerWithParams creates a scheduler with custom FSRS parameters.
func NewSchedulerWithParams(params fsrs.Parameters, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{fsrs: fsrs.NewFSRS(params), clock: clock}
}

// Now returns the scheduler's notion of the current time.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

// Review applies a rating to rec and returns the updated record and the log
// entry that was appended. rec itself is left untouched.
func (s *Scheduler) Review(rec ReviewRecord, r Rating) (ReviewRecord, LogEntry, error) {
	if !r.Valid() {
		return rec, LogEntry{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	if rec.State != nil {
		if err := rec.State.Validate(); err != nil {
			return rec, LogEntry{}, fmt.Errorf("review %s: %w", rec.Key, err)
		}
	}

	now := s.clock()
	prev := rec.State.card()
	next := s.fsrs.Repeat(prev, now)[r.fsrs()].Card
	state := stateFromCard(next)

	entry := LogEntry{
		Rating:        r,
		ReviewedAt:    now,
		FromPhase:     phaseFromFSRS(prev.State),
		ToPhase:       state.Phase,
		PrevDue:       prev.Due,
		NextDue:       state.Due,
		Stability:     state.Stability,
		Difficulty:    state.Difficulty,
		ElapsedDays:   state.ElapsedDays,
		ScheduledDays: state.ScheduledDays,
	}

	out := rec.Clone()
	out.State = state
	out.Logs = append(out.Logs, entry)
	out.LastRating = r
	out.InRotation = rec.InRotation || r.Successful()
	out.UpdatedAt = now
	return out, entry, nil
}
