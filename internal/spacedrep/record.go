package spacedrep

import (
	"fmt"
	"time"

	"github.com/abhisek/lexicon/internal/catalog"
)

// Key identifies a review record.
type Key struct {
	UserID int64
	Kind   catalog.Kind
	ItemID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%d", k.UserID, k.Kind, k.ItemID)
}

// LogEntry records one rating and the state transition it caused.
type LogEntry struct {
	Rating        Rating    `json:"rating"`
	ReviewedAt    time.Time `json:"reviewed_at"`
	FromPhase     Phase     `json:"from_phase"`
	ToPhase       Phase     `json:"to_phase"`
	PrevDue       time.Time `json:"prev_due"`
	NextDue       time.Time `json:"next_due"`
	Stability     float64   `json:"stability"`
	Difficulty    float64   `json:"difficulty"`
	ElapsedDays   uint64    `json:"elapsed_days"`
	ScheduledDays uint64    `json:"scheduled_days"`
}

// ReviewRecord is the per-user, per-item spaced repetition ledger entry.
// State is nil until the first rating.
type ReviewRecord struct {
	Key
	State       *MemoryState
	Logs        []LogEntry
	LastAnswer  string
	LastCorrect *bool
	LastRating  Rating
	InRotation  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// Version counts saves. Zero means the record was never stored.
	Version int64
}

// IsDue reports whether the record has a memory state due at or before now.
func (r ReviewRecord) IsDue(now time.Time) bool {
	return r.State != nil && !now.Before(r.State.Due)
}

// OverdueDays returns how many days past due the record is, or 0.
func (r ReviewRecord) OverdueDays(now time.Time) float64 {
	if !r.IsDue(now) {
		return 0
	}
	return now.Sub(r.State.Due).Hours() / 24.0
}

// Clone returns a deep copy so callers can hand records across goroutines.
func (r ReviewRecord) Clone() ReviewRecord {
	out := r
	if r.State != nil {
		st := *r.State
		out.State = &st
	}
	if r.Logs != nil {
		out.Logs = append([]LogEntry(nil), r.Logs...)
	}
	if r.LastCorrect != nil {
		c := *r.LastCorrect
		out.LastCorrect = &c
	}
	return out
}

// DueRecords returns up to count graduated records that are due at now,
// in input order.
func DueRecords(records []ReviewRecord, now time.Time, count int) []ReviewRecord {
	if count <= 0 {
		return nil
	}
	var due []ReviewRecord
	for _, r := range records {
		if !r.InRotation || !r.IsDue(now) {
			continue
		}
		due = append(due, r)
		if len(due) == count {
			break
		}
	}
	return due
}
