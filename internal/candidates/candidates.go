// Package candidates builds the pools of items a learner may still be
// offered in a new study set.
package candidates

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// Graduated holds, per kind, the ids already in review rotation for a user.
type Graduated map[catalog.Kind]map[int64]bool

// Has reports whether the item is graduated.
func (g Graduated) Has(kind catalog.Kind, id int64) bool {
	return g[kind][id]
}

// Add marks an item as graduated.
func (g Graduated) Add(kind catalog.Kind, id int64) {
	if g[kind] == nil {
		g[kind] = make(map[int64]bool)
	}
	g[kind][id] = true
}

// GraduatedFromRecords collects the in-rotation records into a Graduated set.
func GraduatedFromRecords(recs []spacedrep.ReviewRecord) Graduated {
	g := make(Graduated)
	for _, r := range recs {
		if r.InRotation {
			g.Add(r.Kind, r.ItemID)
		}
	}
	return g
}

// Pools maps item ids to items for each kind.
type Pools struct {
	Standalone map[int64]catalog.Item
	Compound   map[int64]catalog.Item
	Group      map[int64]catalog.Item
}

// NewPools returns empty pools.
func NewPools() Pools {
	return Pools{
		Standalone: make(map[int64]catalog.Item),
		Compound:   make(map[int64]catalog.Item),
		Group:      make(map[int64]catalog.Item),
	}
}

// Pool returns the pool for kind, or nil for an unknown kind.
func (p Pools) Pool(kind catalog.Kind) map[int64]catalog.Item {
	switch kind {
	case catalog.KindStandalone:
		return p.Standalone
	case catalog.KindCompound:
		return p.Compound
	case catalog.KindGroup:
		return p.Group
	}
	return nil
}

// Keys returns the ids of the kind's pool in ascending order.
func (p Pools) Keys(kind catalog.Kind) []int64 {
	pool := p.Pool(kind)
	keys := make([]int64, 0, len(pool))
	for id := range pool {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the total number of candidates.
func (p Pools) Len() int {
	return len(p.Standalone) + len(p.Compound) + len(p.Group)
}

// Build lists the catalog and drops every graduated item. An empty catalog
// yields empty pools.
func Build(ctx context.Context, cat catalog.Lister, graduated Graduated) (Pools, error) {
	pools := NewPools()
	for _, kind := range catalog.Kinds {
		items, err := cat.List(ctx, kind)
		if err != nil {
			return Pools{}, fmt.Errorf("list %s candidates: %w", kind, err)
		}
		pool := pools.Pool(kind)
		for _, it := range items {
			if graduated.Has(kind, it.ItemID()) {
				continue
			}
			pool[it.ItemID()] = it
		}
	}
	return pools, nil
}
