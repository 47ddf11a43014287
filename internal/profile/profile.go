package profile

import (
	"context"
	"sync"

	"github.com/abhisek/lexicon/internal/catalog"
)

// Profile describes what a learner knows and is aiming for. The study
// engine only reads Categories and CurrentLevel; the rest is carried for
// callers that edit profiles.
type Profile struct {
	UserID        int64
	Categories    []int
	CurrentLevel  catalog.Level
	TargetLevel   catalog.Level
	DesiredLevel  catalog.Level
	DailyMinutes  int
	LearningSpeed float64
	Region        string
	Public        bool
}

// SharesCategory reports whether any of cats is in the profile's categories.
// Either side being empty means no overlap.
func (p *Profile) SharesCategory(cats []int) bool {
	if p == nil || len(p.Categories) == 0 || len(cats) == 0 {
		return false
	}
	for _, a := range p.Categories {
		for _, b := range cats {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Repo stores learner profiles. Get returns (nil, nil) when the user has
// not filled in a profile.
type Repo interface {
	Get(ctx context.Context, userID int64) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// MemoryRepo is an in-process Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
}

func NewMemoryRepo(profiles ...*Profile) *MemoryRepo {
	m := &MemoryRepo{profiles: make(map[int64]Profile)}
	for _, p := range profiles {
		m.profiles[p.UserID] = p.clone()
	}
	return m
}

func (m *MemoryRepo) Get(_ context.Context, userID int64) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	out := p.clone()
	return &out, nil
}

func (m *MemoryRepo) Save(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p.clone()
	return nil
}

func (p *Profile) clone() Profile {
	out := *p
	out.Categories = append([]int(nil), p.Categories...)
	return out
}
