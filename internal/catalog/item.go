package catalog

import "errors"

// ErrNotFound is returned by catalog lookups for unknown ids.
var ErrNotFound = errors.New("catalog item not found")

// Kind identifies an item variant. The values double as the persisted
// item_type column.
type Kind string

const (
	KindStandalone Kind = "word"
	KindCompound   Kind = "phrase"
	KindGroup      Kind = "group"
)

// Kinds lists every item kind in study-set order.
var Kinds = []Kind{KindStandalone, KindCompound, KindGroup}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStandalone, KindCompound, KindGroup:
		return true
	}
	return false
}

// Traits are the scoring attributes every item carries.
type Traits struct {
	Categories []int
	Level      Level
	// Frequency is non-negative; lower means rarer. Zero means unknown.
	Frequency float64
}

// Item is a learnable unit: *Standalone, *Compound or *Group.
// The set of variants is closed.
type Item interface {
	ItemID() int64
	Kind() Kind
	ItemTraits() Traits
	isItem()
}

// Component is one morphological part of a standalone item.
type Component struct {
	Kind string // root, prefix, suffix, ...
	Text string
}

// ComponentRoot is the component kind matched by root searches.
const ComponentRoot = "root"

// Standalone is a single vocabulary entry.
type Standalone struct {
	ID           int64
	Text         string
	Components   []Component
	MeaningCount int
	Traits
}

// Compound is a multi-word unit built from standalone items in order.
type Compound struct {
	ID           int64
	WordIDs      []int64
	MeaningCount int
	Traits
}

// Member links a group to exactly one standalone or compound item.
type Member struct {
	StandaloneID int64
	CompoundID   int64
}

// Group is an unordered set of semantically related items.
type Group struct {
	ID      int64
	Name    string
	Members []Member
	Traits
}

func (s *Standalone) ItemID() int64      { return s.ID }
func (s *Standalone) Kind() Kind         { return KindStandalone }
func (s *Standalone) ItemTraits() Traits { return s.Traits }
func (*Standalone) isItem()              {}

func (c *Compound) ItemID() int64      { return c.ID }
func (c *Compound) Kind() Kind         { return KindCompound }
func (c *Compound) ItemTraits() Traits { return c.Traits }
func (*Compound) isItem()              {}

func (g *Group) ItemID() int64      { return g.ID }
func (g *Group) Kind() Kind         { return KindGroup }
func (g *Group) ItemTraits() Traits { return g.Traits }
func (*Group) isItem()              {}

// ReferencesAny reports whether the group has a member pointing at one of
// the standalone item ids in ids.
func (g *Group) ReferencesAny(ids map[int64]bool) bool {
	for _, m := range g.Members {
		if m.StandaloneID != 0 && ids[m.StandaloneID] {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the compound uses one of the standalone item
// ids in ids.
func (c *Compound) ContainsAny(ids map[int64]bool) bool {
	for _, id := range c.WordIDs {
		if ids[id] {
			return true
		}
	}
	return false
}
