package spacedrep

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/lexicon/internal/catalog"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newRecord() ReviewRecord {
	return ReviewRecord{Key: Key{UserID: 1, Kind: catalog.KindStandalone, ItemID: 7}, CreatedAt: t0}
}

func TestReview_InvalidRatingLeavesRecordUnchanged(t *testing.T) {
	s := NewScheduler(FixedClock(t0))
	rec, _, err := s.Review(newRecord(), Good)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	before := rec.Clone()

	for _, r := range []Rating{-1, 0, 5, 42} {
		got, _, err := s.Review(rec, r)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Review(%d) err = %v, want ErrInvalidRating", r, err)
		}
		if !reflect.DeepEqual(got, before) {
			t.Errorf("Review(%d) returned a modified record", r)
		}
		if !reflect.DeepEqual(rec, before) {
			t.Errorf("Review(%d) mutated its input", r)
		}
	}
}

func TestReview_DoesNotMutateInput(t *testing.T) {
	s := NewScheduler(FixedClock(t0))
	first, _, _ := s.Review(newRecord(), Again)
	snapshot := first.Clone()

	if _, _, err := s.Review(first, Good); err != nil {
		t.Fatalf("Review: %v", err)
	}
	if !reflect.DeepEqual(first, snapshot) {
		t.Error("input record changed after Review")
	}
	if len(first.Logs) != 1 {
		t.Errorf("input logs = %d, want 1", len(first.Logs))
	}
}

func TestReview_FirstRatingLeavesNew(t *testing.T) {
	tests := []struct {
		rating Rating
		phases []Phase
	}{
		{Again, []Phase{PhaseLearning}},
		{Hard, []Phase{PhaseLearning}},
		{Good, []Phase{PhaseLearning}},
		{Easy, []Phase{PhaseReview}},
	}
	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			s := NewScheduler(FixedClock(t0))
			got, entry, err := s.Review(newRecord(), tt.rating)
			if err != nil {
				t.Fatalf("Review: %v", err)
			}
			if got.State == nil {
				t.Fatal("state is nil after first rating")
			}
			if entry.FromPhase != PhaseNew {
				t.Errorf("FromPhase = %q, want new", entry.FromPhase)
			}
			if got.State.Phase != tt.phases[0] {
				t.Errorf("Phase = %q, want %q", got.State.Phase, tt.phases[0])
			}
			if got.State.Version != StateVersion {
				t.Errorf("Version = %d, want %d", got.State.Version, StateVersion)
			}
			if got.LastRating != tt.rating {
				t.Errorf("LastRating = %v, want %v", got.LastRating, tt.rating)
			}
			if len(got.Logs) != 1 || got.Logs[0] != entry {
				t.Errorf("Logs = %+v, want the returned entry", got.Logs)
			}
		})
	}
}

func TestReview_GraduationIsMonotonic(t *testing.T) {
	ratings := []Rating{Again, Hard, Good, Again, Hard, Again, Easy, Again}
	s := NewScheduler(FixedClock(t0))
	rec := newRecord()
	graduated := false
	for i, r := range ratings {
		var err error
		rec, _, err = s.Review(rec, r)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if r.Successful() {
			graduated = true
		}
		if rec.InRotation != graduated {
			t.Errorf("step %d (%s): InRotation = %v, want %v", i, r, rec.InRotation, graduated)
		}
	}
	if len(rec.Logs) != len(ratings) {
		t.Errorf("Logs = %d, want %d", len(rec.Logs), len(ratings))
	}
}

func TestReview_SuccessfulReviewAdvancesDue(t *testing.T) {
	for _, r := range []Rating{Good, Easy} {
		t.Run(r.String(), func(t *testing.T) {
			rec := newRecord()
			now := t0
			var prevDue time.Time
			for i := 0; i < 5; i++ {
				s := NewScheduler(FixedClock(now))
				next, _, err := s.Review(rec, r)
				if err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
				if !next.State.Due.After(prevDue) {
					t.Fatalf("step %d: due %v does not exceed previous %v", i, next.State.Due, prevDue)
				}
				prevDue = next.State.Due
				now = next.State.Due
				rec = next
			}
		})
	}
}

// Reviewing before the due date still schedules after the review time, even
// when the new due date lands before the previous one.
func TestReview_EarlyReviewDueFollowsReviewTime(t *testing.T) {
	s := NewScheduler(FixedClock(t0))
	rec := newRecord()
	for i, r := range []Rating{Easy, Good, Good, Easy} {
		next, _, err := s.Review(rec, r)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !next.State.Due.After(t0) {
			t.Fatalf("step %d: due %v not after review time %v", i, next.State.Due, t0)
		}
		rec = next
	}
}

func TestReview_Deterministic(t *testing.T) {
	ratings := []Rating{Good, Hard, Again, Easy}
	run := func() ReviewRecord {
		rec := newRecord()
		now := t0
		for _, r := range ratings {
			rec, _, _ = NewScheduler(FixedClock(now)).Review(rec, r)
			now = now.Add(36 * time.Hour)
		}
		return rec
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same inputs produced different records:\n%+v\n%+v", a.State, b.State)
	}
}

func TestReview_RejectsCorruptState(t *testing.T) {
	rec := newRecord()
	rec.State = &MemoryState{Version: 99, Phase: PhaseReview, Stability: 1, Due: t0}
	_, _, err := NewScheduler(FixedClock(t0)).Review(rec, Good)
	if !errors.Is(err, ErrStateCorruption) {
		t.Errorf("err = %v, want ErrStateCorruption", err)
	}
}

func TestIsDue(t *testing.T) {
	due := t0.Add(24 * time.Hour)
	rec := ReviewRecord{State: &MemoryState{Due: due}}
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", due.Add(-time.Second), false},
		{"at", due, true},
		{"after", due.Add(72 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.IsDue(tt.now); got != tt.want {
				t.Errorf("IsDue(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
	if (ReviewRecord{}).IsDue(due) {
		t.Error("record without state should never be due")
	}
}

func TestOverdueDays(t *testing.T) {
	rec := ReviewRecord{State: &MemoryState{Due: t0}}
	if got := rec.OverdueDays(t0.Add(-time.Hour)); got != 0 {
		t.Errorf("OverdueDays before due = %f, want 0", got)
	}
	got := rec.OverdueDays(t0.Add(72 * time.Hour))
	if got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays = %f, want ~3.0", got)
	}
}

func TestDueRecords(t *testing.T) {
	mk := func(id int64, rotating bool, due time.Time) ReviewRecord {
		return ReviewRecord{
			Key:        Key{UserID: 1, Kind: catalog.KindStandalone, ItemID: id},
			State:      &MemoryState{Due: due},
			InRotation: rotating,
		}
	}
	recs := []ReviewRecord{
		mk(1, true, t0.Add(-time.Hour)),
		mk(2, false, t0.Add(-time.Hour)),
		mk(3, true, t0.Add(time.Hour)),
		mk(4, true, t0),
		mk(5, true, t0.Add(-48*time.Hour)),
		{Key: Key{ItemID: 6}, InRotation: true},
	}

	ids := func(rs []ReviewRecord) []int64 {
		var out []int64
		for _, r := range rs {
			out = append(out, r.ItemID)
		}
		return out
	}

	tests := []struct {
		count int
		want  []int64
	}{
		{10, []int64{1, 4, 5}},
		{2, []int64{1, 4}},
		{0, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		if got := ids(DueRecords(recs, t0, tt.count)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DueRecords(count=%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		r          Rating
		valid      bool
		successful bool
	}{
		{0, false, false},
		{Again, true, false},
		{Hard, true, false},
		{Good, true, true},
		{Easy, true, true},
		{5, false, false},
	}
	for _, tt := range tests {
		if got := tt.r.Valid(); got != tt.valid {
			t.Errorf("Rating(%d).Valid() = %v, want %v", tt.r, got, tt.valid)
		}
		if got := tt.r.Successful(); got != tt.successful {
			t.Errorf("Rating(%d).Successful() = %v, want %v", tt.r, got, tt.successful)
		}
	}
}
