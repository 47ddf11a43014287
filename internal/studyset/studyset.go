package studyset

import (
	"context"
	"sort"
	"sync"
	"time"
)

// StudySet is a generated bundle of items for one learner. Sets are never
// updated; each generation stores a new one. A non-empty Root marks a set
// built by RootFilter instead of the optimizer.
type StudySet struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
	Selection
	Root      string    `json:"root,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRoot reports whether the set came from a root search.
func (s *StudySet) IsRoot() bool {
	return s.Root != ""
}

// Repo stores study sets. Insert never overwrites; Latest and LatestRoot
// return (nil, nil) when the user has no set of that variant.
type Repo interface {
	Insert(ctx context.Context, set *StudySet) error
	Latest(ctx context.Context, userID int64) (*StudySet, error)
	LatestRoot(ctx context.Context, userID int64) (*StudySet, error)
}

// MemoryRepo is an in-process Repo.
type MemoryRepo struct {
	mu   sync.Mutex
	sets []StudySet
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Insert(_ context.Context, set *StudySet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *set
	cp.Selection = set.Selection.normalized()
	m.sets = append(m.sets, cp)
	return nil
}

func (m *MemoryRepo) Latest(_ context.Context, userID int64) (*StudySet, error) {
	return m.latest(userID, false), nil
}

func (m *MemoryRepo) LatestRoot(_ context.Context, userID int64) (*StudySet, error) {
	return m.latest(userID, true), nil
}

// Count returns how many sets have been stored.
func (m *MemoryRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets)
}

func (m *MemoryRepo) latest(userID int64, root bool) *StudySet {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []StudySet
	for _, s := range m.sets {
		if s.UserID == userID && s.IsRoot() == root {
			found = append(found, s)
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool {
		return newer(&found[i], &found[j])
	})
	out := found[0]
	out.Selection = out.Selection.normalized()
	return &out
}

// newer orders sets by creation time, then id, newest first.
func newer(a, b *StudySet) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
