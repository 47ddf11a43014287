package studyset

import (
	"math"

	"github.com/abhisek/lexicon/internal/candidates"
	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/profile"
)

// ItemCost scores a single item for a learner. Lower is better.
//
// Overlap with the learner's categories lowers the cost while harder,
// rarer and more complex items raise it. Frequency zero means unknown and
// adds nothing.
func ItemCost(it catalog.Item, prof *profile.Profile) float64 {
	tr := it.ItemTraits()
	var cost float64

	if prof.SharesCategory(tr.Categories) {
		cost -= 2
	}
	if prof != nil && tr.Level.IsSet() && prof.CurrentLevel.IsSet() {
		switch {
		case tr.Level > prof.CurrentLevel:
			cost += 2
		case tr.Level == prof.CurrentLevel:
			cost++
		}
	}
	if tr.Frequency != 0 {
		cost += math.Max(0, 10-tr.Frequency)
	}
	return cost + complexity(it)
}

func complexity(it catalog.Item) float64 {
	switch v := it.(type) {
	case *catalog.Standalone:
		return float64(len(v.Components) + v.MeaningCount)
	case *catalog.Compound:
		return float64(len(v.WordIDs) + v.MeaningCount)
	case *catalog.Group:
		return float64(len(v.Members))
	}
	return 0
}

// TotalCost sums ItemCost over every id of sel found in pools.
func TotalCost(sel Selection, pools candidates.Pools, prof *profile.Profile) float64 {
	var total float64
	for _, kind := range catalog.Kinds {
		pool := pools.Pool(kind)
		for _, id := range sel.IDs(kind) {
			if it, ok := pool[id]; ok {
				total += ItemCost(it, prof)
			}
		}
	}
	return total
}
