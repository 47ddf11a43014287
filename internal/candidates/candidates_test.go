package candidates

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

func testCatalog() *catalog.Memory {
	return catalog.NewMemory(
		&catalog.Standalone{ID: 3, Text: "Haus"},
		&catalog.Standalone{ID: 1, Text: "Hund"},
		&catalog.Standalone{ID: 2, Text: "Katze"},
		&catalog.Compound{ID: 10, WordIDs: []int64{1, 2}},
		&catalog.Compound{ID: 11, WordIDs: []int64{2, 3}},
		&catalog.Group{ID: 20, Members: []catalog.Member{{StandaloneID: 1}}},
	)
}

func TestBuild_ExcludesGraduated(t *testing.T) {
	g := make(Graduated)
	g.Add(catalog.KindStandalone, 2)
	g.Add(catalog.KindCompound, 11)
	// A graduated phrase id must not knock out the word with the same id.
	g.Add(catalog.KindCompound, 1)

	pools, err := Build(context.Background(), testCatalog(), g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		kind catalog.Kind
		want []int64
	}{
		{catalog.KindStandalone, []int64{1, 3}},
		{catalog.KindCompound, []int64{10}},
		{catalog.KindGroup, []int64{20}},
	}
	for _, tt := range tests {
		if got := pools.Keys(tt.kind); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Keys(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
	if pools.Len() != 4 {
		t.Errorf("Len() = %d, want 4", pools.Len())
	}
}

func TestBuild_EmptyCatalog(t *testing.T) {
	pools, err := Build(context.Background(), catalog.NewMemory(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pools.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pools.Len())
	}
	if pools.Standalone == nil || pools.Compound == nil || pools.Group == nil {
		t.Error("pools should be empty maps, not nil")
	}
}

type failingLister struct{}

func (failingLister) List(context.Context, catalog.Kind) ([]catalog.Item, error) {
	return nil, errors.New("db down")
}

func TestBuild_ListError(t *testing.T) {
	if _, err := Build(context.Background(), failingLister{}, nil); err == nil {
		t.Error("expected error from failing catalog")
	}
}

func TestGraduatedFromRecords(t *testing.T) {
	recs := []spacedrep.ReviewRecord{
		{Key: spacedrep.Key{UserID: 1, Kind: catalog.KindStandalone, ItemID: 1}, InRotation: true},
		{Key: spacedrep.Key{UserID: 1, Kind: catalog.KindStandalone, ItemID: 2}},
		{Key: spacedrep.Key{UserID: 1, Kind: catalog.KindGroup, ItemID: 5}, InRotation: true},
	}
	g := GraduatedFromRecords(recs)
	if !g.Has(catalog.KindStandalone, 1) || !g.Has(catalog.KindGroup, 5) {
		t.Errorf("missing graduated ids: %v", g)
	}
	if g.Has(catalog.KindStandalone, 2) {
		t.Error("record not in rotation counted as graduated")
	}
	if g.Has(catalog.KindCompound, 1) {
		t.Error("kinds must not bleed into each other")
	}
}
