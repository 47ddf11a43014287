package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// TrainingItem is one question of a training session.
type TrainingItem struct {
	Ref  grading.ItemRef
	Item catalog.Item
	// Record is set in review mode.
	Record *spacedrep.ReviewRecord
}

// StartTraining picks up to count items to practise. In review mode these
// are the user's due graduated records; otherwise they are the standalone
// then compound items of the latest study set the user has not answered
// yet. Items missing from the catalog are skipped. Without a study set the
// learning session is empty.
func (e *Engine) StartTraining(ctx context.Context, userID int64, count int, review bool) ([]TrainingItem, error) {
	if count <= 0 {
		return nil, nil
	}
	if review {
		return e.reviewSession(ctx, userID, count)
	}
	return e.learnSession(ctx, userID, count)
}

func (e *Engine) reviewSession(ctx context.Context, userID int64, count int) ([]TrainingItem, error) {
	due, err := e.ledger.ListDue(ctx, userID, count)
	if err != nil {
		return nil, err
	}
	var items []TrainingItem
	for i := range due {
		rec := due[i]
		item, ok, err := e.lookup(ctx, rec.Kind, rec.ItemID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, TrainingItem{
			Ref:    grading.ItemRef{Kind: rec.Kind, ID: rec.ItemID},
			Item:   item,
			Record: &rec,
		})
	}
	return items, nil
}

func (e *Engine) learnSession(ctx context.Context, userID int64, count int) ([]TrainingItem, error) {
	set, err := e.studySets.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}
	recs, err := e.ledger.Records(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[grading.ItemRef]bool, len(recs))
	for _, r := range recs {
		seen[grading.ItemRef{Kind: r.Kind, ID: r.ItemID}] = true
	}

	var items []TrainingItem
	add := func(kind catalog.Kind, ids []int64) error {
		for _, id := range ids {
			if len(items) >= count {
				return nil
			}
			ref := grading.ItemRef{Kind: kind, ID: id}
			if seen[ref] {
				continue
			}
			item, ok, err := e.lookup(ctx, kind, id)
			if err != nil {
				return err
			}
			if ok {
				items = append(items, TrainingItem{Ref: ref, Item: item})
			}
		}
		return nil
	}
	if err := add(catalog.KindStandalone, set.Selection.StandaloneIDs); err != nil {
		return nil, err
	}
	if err := add(catalog.KindCompound, set.Selection.CompoundIDs); err != nil {
		return nil, err
	}
	return items, nil
}

// lookup fetches a gradable item. Groups and unknown ids report ok=false.
func (e *Engine) lookup(ctx context.Context, kind catalog.Kind, id int64) (catalog.Item, bool, error) {
	var (
		item catalog.Item
		err  error
	)
	switch kind {
	case catalog.KindStandalone:
		var s *catalog.Standalone
		s, err = e.catalog.Standalone(ctx, id)
		item = s
	case catalog.KindCompound:
		var c *catalog.Compound
		c, err = e.catalog.Compound(ctx, id)
		item = c
	default:
		return nil, false, nil
	}
	if errors.Is(err, catalog.ErrNotFound) {
		e.log.Debug("training item missing from catalog", "kind", string(kind), "id", id)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s %d: %w", kind, id, err)
	}
	return item, true, nil
}
