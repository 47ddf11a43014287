package spacedrep

import (
	"context"
	"sync"
)

// Repo persists review records. Load returns (nil, nil) when no record
// exists.
type Repo interface {
	Load(ctx context.Context, key Key) (*ReviewRecord, error)
	// Save stores rec only if the stored version still equals rec.Version
	// (zero meaning absent) and then increments rec.Version. Otherwise it
	// returns ErrConflict and stores nothing.
	Save(ctx context.Context, rec *ReviewRecord) error
	// ListInRotation returns the user's graduated records in creation order.
	ListInRotation(ctx context.Context, userID int64) ([]ReviewRecord, error)
	// ListByUser returns all of the user's records in creation order.
	ListByUser(ctx context.Context, userID int64) ([]ReviewRecord, error)
}

// MemoryRepo is an in-process Repo, used by tests and dry runs.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[Key]ReviewRecord
	order   []Key
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{records: make(map[Key]ReviewRecord)}
}

func (m *MemoryRepo) Load(_ context.Context, key Key) (*ReviewRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	out := rec.Clone()
	return &out, nil
}

func (m *MemoryRepo) Save(_ context.Context, rec *ReviewRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.records[rec.Key]
	if cur.Version != rec.Version {
		return ErrConflict
	}
	if !ok {
		m.order = append(m.order, rec.Key)
	}
	rec.Version++
	m.records[rec.Key] = rec.Clone()
	return nil
}

func (m *MemoryRepo) ListInRotation(_ context.Context, userID int64) ([]ReviewRecord, error) {
	return m.list(userID, true), nil
}

func (m *MemoryRepo) ListByUser(_ context.Context, userID int64) ([]ReviewRecord, error) {
	return m.list(userID, false), nil
}

func (m *MemoryRepo) list(userID int64, rotationOnly bool) []ReviewRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ReviewRecord
	for _, k := range m.order {
		if k.UserID != userID {
			continue
		}
		rec := m.records[k]
		if rotationOnly && !rec.InRotation {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}
