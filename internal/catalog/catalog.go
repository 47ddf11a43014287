package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Lister enumerates every item of a kind.
type Lister interface {
	List(ctx context.Context, kind Kind) ([]Item, error)
}

// Catalog is the read-only item catalog consumed by the study engine.
type Catalog interface {
	Lister
	Standalone(ctx context.Context, id int64) (*Standalone, error)
	Compound(ctx context.Context, id int64) (*Compound, error)
	Group(ctx context.Context, id int64) (*Group, error)
}

// Memory is an in-process Catalog. It is safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	standalones map[int64]*Standalone
	compounds   map[int64]*Compound
	groups      map[int64]*Group
}

// NewMemory creates a Memory catalog holding the given items.
func NewMemory(items ...Item) *Memory {
	m := &Memory{
		standalones: make(map[int64]*Standalone),
		compounds:   make(map[int64]*Compound),
		groups:      make(map[int64]*Group),
	}
	for _, it := range items {
		m.Put(it)
	}
	return m
}

// Put adds or replaces an item.
func (m *Memory) Put(it Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := it.(type) {
	case *Standalone:
		m.standalones[v.ID] = v
	case *Compound:
		m.compounds[v.ID] = v
	case *Group:
		m.groups[v.ID] = v
	}
}

func (m *Memory) Standalone(_ context.Context, id int64) (*Standalone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.standalones[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("word %d: %w", id, ErrNotFound)
}

func (m *Memory) Compound(_ context.Context, id int64) (*Compound, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.compounds[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("phrase %d: %w", id, ErrNotFound)
}

func (m *Memory) Group(_ context.Context, id int64) (*Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("group %d: %w", id, ErrNotFound)
}

// List returns the items of a kind ordered by id.
func (m *Memory) List(_ context.Context, kind Kind) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Item
	switch kind {
	case KindStandalone:
		for _, s := range m.standalones {
			out = append(out, s)
		}
	case KindCompound:
		for _, c := range m.compounds {
			out = append(out, c)
		}
	case KindGroup:
		for _, g := range m.groups {
			out = append(out, g)
		}
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID() < out[j].ItemID() })
	return out, nil
}
