package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexicon/internal/studyset"
)

// StudySetRepo implements studyset.Repo. Optimizer sets and root sets live
// in separate append-only tables.
type StudySetRepo struct {
	db *sqlx.DB
}

var _ studyset.Repo = (*StudySetRepo)(nil)

type studySetRow struct {
	ID            string `db:"id"`
	UserID        int64  `db:"user_id"`
	Root          string `db:"root"`
	StandaloneIDs string `db:"standalone_ids"`
	CompoundIDs   string `db:"compound_ids"`
	GroupIDs      string `db:"group_ids"`
	CreatedAt     string `db:"created_at"`
}

func (r *StudySetRepo) Insert(ctx context.Context, set *studyset.StudySet) error {
	row := studySetRow{
		ID:        set.ID,
		UserID:    set.UserID,
		Root:      set.Root,
		CreatedAt: formatTime(set.CreatedAt),
	}
	var err error
	if row.StandaloneIDs, err = encodeList(set.StandaloneIDs); err != nil {
		return err
	}
	if row.CompoundIDs, err = encodeList(set.CompoundIDs); err != nil {
		return err
	}
	if row.GroupIDs, err = encodeList(set.GroupIDs); err != nil {
		return err
	}

	query := `INSERT INTO study_sets (id, user_id, standalone_ids, compound_ids, group_ids, created_at)
		VALUES (:id, :user_id, :standalone_ids, :compound_ids, :group_ids, :created_at)`
	if set.IsRoot() {
		query = `INSERT INTO root_study_sets (id, user_id, root, standalone_ids, compound_ids, group_ids, created_at)
			VALUES (:id, :user_id, :root, :standalone_ids, :compound_ids, :group_ids, :created_at)`
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert study set %s: %w", set.ID, err)
	}
	return nil
}

func (r *StudySetRepo) Latest(ctx context.Context, userID int64) (*studyset.StudySet, error) {
	return r.latest(ctx, `SELECT id, user_id, '' AS root, standalone_ids, compound_ids, group_ids, created_at
		FROM study_sets WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
}

func (r *StudySetRepo) LatestRoot(ctx context.Context, userID int64) (*studyset.StudySet, error) {
	return r.latest(ctx, `SELECT id, user_id, root, standalone_ids, compound_ids, group_ids, created_at
		FROM root_study_sets WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
}

func (r *StudySetRepo) latest(ctx context.Context, query string, userID int64) (*studyset.StudySet, error) {
	var row studySetRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(query), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest study set for user %d: %w", userID, err)
	}
	return row.set()
}

func (row studySetRow) set() (*studyset.StudySet, error) {
	s := &studyset.StudySet{ID: row.ID, UserID: row.UserID, Root: row.Root}
	var err error
	if s.StandaloneIDs, err = decodeList[int64](row.StandaloneIDs); err != nil {
		return nil, fmt.Errorf("study set %s: %w", row.ID, err)
	}
	if s.CompoundIDs, err = decodeList[int64](row.CompoundIDs); err != nil {
		return nil, fmt.Errorf("study set %s: %w", row.ID, err)
	}
	if s.GroupIDs, err = decodeList[int64](row.GroupIDs); err != nil {
		return nil, fmt.Errorf("study set %s: %w", row.ID, err)
	}
	if s.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("study set %s: %w", row.ID, err)
	}
	return s, nil
}
