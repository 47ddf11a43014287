package grading

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/diagnosis"
)

// AnswerError is the stored classification of one wrong answer.
type AnswerError struct {
	ID        string
	UserID    int64
	Kind      catalog.Kind
	ItemID    int64
	Correct   string
	Submitted string
	Category  diagnosis.Category
	Rationale string
	Fallback  bool
	CreatedAt time.Time
}

// ErrorRepo is the append-only log of answer errors.
type ErrorRepo interface {
	Append(ctx context.Context, e *AnswerError) error
	// ListByUser returns the user's errors oldest first.
	ListByUser(ctx context.Context, userID int64) ([]AnswerError, error)
}

// MemoryErrorRepo is an in-process ErrorRepo.
type MemoryErrorRepo struct {
	mu   sync.Mutex
	rows []AnswerError
}

func NewMemoryErrorRepo() *MemoryErrorRepo {
	return &MemoryErrorRepo{}
}

func (m *MemoryErrorRepo) Append(_ context.Context, e *AnswerError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *e)
	return nil
}

func (m *MemoryErrorRepo) ListByUser(_ context.Context, userID int64) ([]AnswerError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []AnswerError
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
