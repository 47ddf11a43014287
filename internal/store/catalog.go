package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexicon/internal/catalog"
)

// CatalogRepo implements catalog.Catalog over the words, phrases and
// word_groups tables.
type CatalogRepo struct {
	db *sqlx.DB
}

var _ catalog.Catalog = (*CatalogRepo)(nil)

type traitCols struct {
	Categories string  `db:"categories"`
	Level      string  `db:"level"`
	Frequency  float64 `db:"frequency"`
}

type wordRow struct {
	ID           int64  `db:"id"`
	Word         string `db:"word"`
	Components   string `db:"components"`
	MeaningCount int    `db:"meaning_count"`
	traitCols
}

type phraseRow struct {
	ID           int64  `db:"id"`
	WordIDs      string `db:"word_ids"`
	MeaningCount int    `db:"meaning_count"`
	traitCols
}

type groupRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Members string `db:"members"`
	traitCols
}

type componentJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type memberJSON struct {
	StandaloneID int64 `json:"standalone_id,omitempty"`
	CompoundID   int64 `json:"compound_id,omitempty"`
}

const (
	wordCols   = `id, word, components, meaning_count, categories, level, frequency`
	phraseCols = `id, word_ids, meaning_count, categories, level, frequency`
	groupCols  = `id, name, members, categories, level, frequency`
)

func (r *CatalogRepo) Standalone(ctx context.Context, id int64) (*catalog.Standalone, error) {
	var row wordRow
	if err := r.get(ctx, &row, `SELECT `+wordCols+` FROM words WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("word %d: %w", id, err)
	}
	return row.item()
}

func (r *CatalogRepo) Compound(ctx context.Context, id int64) (*catalog.Compound, error) {
	var row phraseRow
	if err := r.get(ctx, &row, `SELECT `+phraseCols+` FROM phrases WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("phrase %d: %w", id, err)
	}
	return row.item()
}

func (r *CatalogRepo) Group(ctx context.Context, id int64) (*catalog.Group, error) {
	var row groupRow
	if err := r.get(ctx, &row, `SELECT `+groupCols+` FROM word_groups WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("group %d: %w", id, err)
	}
	return row.item()
}

func (r *CatalogRepo) get(ctx context.Context, dst any, query string, args ...any) error {
	err := r.db.GetContext(ctx, dst, r.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}

// List returns every item of kind ordered by id.
func (r *CatalogRepo) List(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	var out []catalog.Item
	switch kind {
	case catalog.KindStandalone:
		var rows []wordRow
		if err := r.db.SelectContext(ctx, &rows, `SELECT `+wordCols+` FROM words ORDER BY id`); err != nil {
			return nil, fmt.Errorf("list words: %w", err)
		}
		for _, row := range rows {
			it, err := row.item()
			if err != nil {
				return nil, err
			}
			out = append(out, it)
		}
	case catalog.KindCompound:
		var rows []phraseRow
		if err := r.db.SelectContext(ctx, &rows, `SELECT `+phraseCols+` FROM phrases ORDER BY id`); err != nil {
			return nil, fmt.Errorf("list phrases: %w", err)
		}
		for _, row := range rows {
			it, err := row.item()
			if err != nil {
				return nil, err
			}
			out = append(out, it)
		}
	case catalog.KindGroup:
		var rows []groupRow
		if err := r.db.SelectContext(ctx, &rows, `SELECT `+groupCols+` FROM word_groups ORDER BY id`); err != nil {
			return nil, fmt.Errorf("list groups: %w", err)
		}
		for _, row := range rows {
			it, err := row.item()
			if err != nil {
				return nil, err
			}
			out = append(out, it)
		}
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
	return out, nil
}

// Put inserts or replaces items in one transaction.
func (r *CatalogRepo) Put(ctx context.Context, items ...catalog.Item) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		if err := putItem(ctx, tx, it); err != nil {
			return fmt.Errorf("put %s %d: %w", it.Kind(), it.ItemID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func putItem(ctx context.Context, tx *sqlx.Tx, it catalog.Item) error {
	traits, err := encodeTraits(it.ItemTraits())
	if err != nil {
		return err
	}
	switch v := it.(type) {
	case *catalog.Standalone:
		comps := make([]componentJSON, len(v.Components))
		for i, c := range v.Components {
			comps[i] = componentJSON{Kind: c.Kind, Text: c.Text}
		}
		enc, err := encodeList(comps)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO words (`+wordCols+`)
			VALUES (:id, :word, :components, :meaning_count, :categories, :level, :frequency)
			ON CONFLICT (id) DO UPDATE SET
				word = excluded.word,
				components = excluded.components,
				meaning_count = excluded.meaning_count,
				categories = excluded.categories,
				level = excluded.level,
				frequency = excluded.frequency`,
			wordRow{ID: v.ID, Word: v.Text, Components: enc, MeaningCount: v.MeaningCount, traitCols: traits})
		return err
	case *catalog.Compound:
		enc, err := encodeList(v.WordIDs)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO phrases (`+phraseCols+`)
			VALUES (:id, :word_ids, :meaning_count, :categories, :level, :frequency)
			ON CONFLICT (id) DO UPDATE SET
				word_ids = excluded.word_ids,
				meaning_count = excluded.meaning_count,
				categories = excluded.categories,
				level = excluded.level,
				frequency = excluded.frequency`,
			phraseRow{ID: v.ID, WordIDs: enc, MeaningCount: v.MeaningCount, traitCols: traits})
		return err
	case *catalog.Group:
		members := make([]memberJSON, len(v.Members))
		for i, m := range v.Members {
			members[i] = memberJSON{StandaloneID: m.StandaloneID, CompoundID: m.CompoundID}
		}
		enc, err := encodeList(members)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO word_groups (`+groupCols+`)
			VALUES (:id, :name, :members, :categories, :level, :frequency)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				members = excluded.members,
				categories = excluded.categories,
				level = excluded.level,
				frequency = excluded.frequency`,
			groupRow{ID: v.ID, Name: v.Name, Members: enc, traitCols: traits})
		return err
	}
	return fmt.Errorf("unsupported item %T", it)
}

func encodeTraits(t catalog.Traits) (traitCols, error) {
	cats, err := encodeList(t.Categories)
	if err != nil {
		return traitCols{}, err
	}
	return traitCols{Categories: cats, Level: t.Level.String(), Frequency: t.Frequency}, nil
}

func (c traitCols) traits() (catalog.Traits, error) {
	cats, err := decodeList[int](c.Categories)
	if err != nil {
		return catalog.Traits{}, fmt.Errorf("categories: %w", err)
	}
	level, err := catalog.ParseLevel(c.Level)
	if err != nil {
		return catalog.Traits{}, err
	}
	if len(cats) == 0 {
		cats = nil
	}
	return catalog.Traits{Categories: cats, Level: level, Frequency: c.Frequency}, nil
}

func (row wordRow) item() (*catalog.Standalone, error) {
	traits, err := row.traits()
	if err != nil {
		return nil, fmt.Errorf("word %d: %w", row.ID, err)
	}
	comps, err := decodeList[componentJSON](row.Components)
	if err != nil {
		return nil, fmt.Errorf("word %d components: %w", row.ID, err)
	}
	s := &catalog.Standalone{ID: row.ID, Text: row.Word, MeaningCount: row.MeaningCount, Traits: traits}
	for _, c := range comps {
		s.Components = append(s.Components, catalog.Component{Kind: c.Kind, Text: c.Text})
	}
	return s, nil
}

func (row phraseRow) item() (*catalog.Compound, error) {
	traits, err := row.traits()
	if err != nil {
		return nil, fmt.Errorf("phrase %d: %w", row.ID, err)
	}
	ids, err := decodeList[int64](row.WordIDs)
	if err != nil {
		return nil, fmt.Errorf("phrase %d word ids: %w", row.ID, err)
	}
	if len(ids) == 0 {
		ids = nil
	}
	return &catalog.Compound{ID: row.ID, WordIDs: ids, MeaningCount: row.MeaningCount, Traits: traits}, nil
}

func (row groupRow) item() (*catalog.Group, error) {
	traits, err := row.traits()
	if err != nil {
		return nil, fmt.Errorf("group %d: %w", row.ID, err)
	}
	members, err := decodeList[memberJSON](row.Members)
	if err != nil {
		return nil, fmt.Errorf("group %d members: %w", row.ID, err)
	}
	g := &catalog.Group{ID: row.ID, Name: row.Name, Traits: traits}
	for _, m := range members {
		g.Members = append(g.Members, catalog.Member{StandaloneID: m.StandaloneID, CompoundID: m.CompoundID})
	}
	return g, nil
}
