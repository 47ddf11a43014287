package studyset

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/abhisek/lexicon/internal/catalog"
)

// RootFilter enumerates every item built on root: standalone items with a
// root component containing it (case-insensitively), compounds using one of
// those items and groups linking one of them. Ids are ascending.
func RootFilter(ctx context.Context, cat catalog.Lister, root string) (Selection, error) {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(root))
	if needle == "" {
		return Selection{}, ErrEmptyRoot
	}

	words, err := cat.List(ctx, catalog.KindStandalone)
	if err != nil {
		return Selection{}, fmt.Errorf("list words: %w", err)
	}
	matched := make(map[int64]bool)
	var sel Selection
	for _, it := range words {
		w, ok := it.(*catalog.Standalone)
		if !ok || !hasRoot(w, needle, fold) {
			continue
		}
		matched[w.ID] = true
		sel.StandaloneIDs = append(sel.StandaloneIDs, w.ID)
	}
	if len(matched) == 0 {
		return Selection{}, fmt.Errorf("%w: %q", ErrNoRootMatch, root)
	}

	phrases, err := cat.List(ctx, catalog.KindCompound)
	if err != nil {
		return Selection{}, fmt.Errorf("list phrases: %w", err)
	}
	for _, it := range phrases {
		if c, ok := it.(*catalog.Compound); ok && c.ContainsAny(matched) {
			sel.CompoundIDs = append(sel.CompoundIDs, c.ID)
		}
	}

	groups, err := cat.List(ctx, catalog.KindGroup)
	if err != nil {
		return Selection{}, fmt.Errorf("list groups: %w", err)
	}
	for _, it := range groups {
		if g, ok := it.(*catalog.Group); ok && g.ReferencesAny(matched) {
			sel.GroupIDs = append(sel.GroupIDs, g.ID)
		}
	}

	return sel.normalized(), nil
}

func hasRoot(w *catalog.Standalone, needle string, fold cases.Caser) bool {
	for _, c := range w.Components {
		if !strings.EqualFold(c.Kind, catalog.ComponentRoot) {
			continue
		}
		if strings.Contains(fold.String(c.Text), needle) {
			return true
		}
	}
	return false
}
