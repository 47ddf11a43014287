package spacedrep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs/v3"
)

// StateVersion is the schema version written into every MemoryState.
const StateVersion = 1

// Phase is the FSRS learning phase of a record.
type Phase string

const (
	PhaseNew        Phase = "new"
	PhaseLearning   Phase = "learning"
	PhaseReview     Phase = "review"
	PhaseRelearning Phase = "relearning"
)

func (p Phase) valid() bool {
	switch p {
	case PhaseNew, PhaseLearning, PhaseReview, PhaseRelearning:
		return true
	}
	return false
}

// MemoryState is the decaying-memory snapshot of one review record.
type MemoryState struct {
	Version       int       `json:"version"`
	Phase         Phase     `json:"phase"`
	Stability     float64   `json:"stability"`
	Difficulty    float64   `json:"difficulty"`
	Due           time.Time `json:"due"`
	LastReview    time.Time `json:"last_review"`
	ElapsedDays   uint64    `json:"elapsed_days"`
	ScheduledDays uint64    `json:"scheduled_days"`
	Reps          uint64    `json:"reps"`
	Lapses        uint64    `json:"lapses"`
}

// Validate checks the state against the current schema. Failures wrap
// ErrStateCorruption.
func (s *MemoryState) Validate() error {
	if s.Version != StateVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrStateCorruption, s.Version, StateVersion)
	}
	if !s.Phase.valid() {
		return fmt.Errorf("%w: unknown phase %q", ErrStateCorruption, s.Phase)
	}
	for name, v := range map[string]float64{"stability": s.Stability, "difficulty": s.Difficulty} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s is %v", ErrStateCorruption, name, v)
		}
	}
	if s.Phase != PhaseNew {
		if s.Due.IsZero() {
			return fmt.Errorf("%w: %s state without due date", ErrStateCorruption, s.Phase)
		}
		if s.Stability == 0 {
			return fmt.Errorf("%w: %s state with zero stability", ErrStateCorruption, s.Phase)
		}
	}
	return nil
}

func (s *MemoryState) card() fsrs.Card {
	if s == nil {
		return fsrs.Card{State: fsrs.New}
	}
	return fsrs.Card{
		Due:           s.Due,
		Stability:     s.Stability,
		Difficulty:    s.Difficulty,
		ElapsedDays:   s.ElapsedDays,
		ScheduledDays: s.ScheduledDays,
		Reps:          s.Reps,
		Lapses:        s.Lapses,
		State:         phaseToFSRS(s.Phase),
		LastReview:    s.LastReview,
	}
}

func stateFromCard(c fsrs.Card) *MemoryState {
	return &MemoryState{
		Version:       StateVersion,
		Phase:         phaseFromFSRS(c.State),
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		Due:           c.Due.UTC(),
		LastReview:    c.LastReview.UTC(),
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
	}
}

func phaseToFSRS(p Phase) fsrs.State {
	switch p {
	case PhaseLearning:
		return fsrs.Learning
	case PhaseReview:
		return fsrs.Review
	case PhaseRelearning:
		return fsrs.Relearning
	default:
		return fsrs.New
	}
}

func phaseFromFSRS(s fsrs.State) Phase {
	switch s {
	case fsrs.Learning:
		return PhaseLearning
	case fsrs.Review:
		return PhaseReview
	case fsrs.Relearning:
		return PhaseRelearning
	default:
		return PhaseNew
	}
}

// EncodeState serializes a state for storage. A nil state encodes to nil.
func EncodeState(s *MemoryState) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// DecodeState parses a persisted state. Empty input and JSON null mean the
// record has never been rated. Anything that does not match the schema
// exactly is reported as ErrStateCorruption.
func DecodeState(raw []byte) (*MemoryState, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s MemoryState
	if err := decodeStrict(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateCorruption, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeLogs serializes a review log.
func EncodeLogs(logs []LogEntry) ([]byte, error) {
	if logs == nil {
		logs = []LogEntry{}
	}
	return json.Marshal(logs)
}

// DecodeLogs parses a persisted review log with the same strictness as
// DecodeState.
func DecodeLogs(raw []byte) ([]LogEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var logs []LogEntry
	if err := decodeStrict(raw, &logs); err != nil {
		return nil, fmt.Errorf("%w: review log: %v", ErrStateCorruption, err)
	}
	for i, l := range logs {
		if !l.Rating.Valid() {
			return nil, fmt.Errorf("%w: review log entry %d has rating %d", ErrStateCorruption, i, l.Rating)
		}
	}
	return logs, nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}
