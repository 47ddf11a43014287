package studyset

import (
	"sort"

	"github.com/abhisek/lexicon/internal/catalog"
)

// Selection is the id content of a study set.
type Selection struct {
	StandaloneIDs []int64 `json:"standalone_ids"`
	CompoundIDs   []int64 `json:"compound_ids"`
	GroupIDs      []int64 `json:"group_ids"`
}

// IDs returns the collection for kind.
func (s Selection) IDs(kind catalog.Kind) []int64 {
	switch kind {
	case catalog.KindStandalone:
		return s.StandaloneIDs
	case catalog.KindCompound:
		return s.CompoundIDs
	case catalog.KindGroup:
		return s.GroupIDs
	}
	return nil
}

// Len returns the number of items across all kinds.
func (s Selection) Len() int {
	return len(s.StandaloneIDs) + len(s.CompoundIDs) + len(s.GroupIDs)
}

func (s *Selection) set(kind catalog.Kind, ids []int64) {
	switch kind {
	case catalog.KindStandalone:
		s.StandaloneIDs = ids
	case catalog.KindCompound:
		s.CompoundIDs = ids
	case catalog.KindGroup:
		s.GroupIDs = ids
	}
}

// normalized returns a copy with every collection sorted and non-nil.
func (s Selection) normalized() Selection {
	var out Selection
	for _, kind := range catalog.Kinds {
		ids := append([]int64{}, s.IDs(kind)...)
		sortIDs(ids)
		out.set(kind, ids)
	}
	return out
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
