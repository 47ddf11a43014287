package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// ReviewRepo implements spacedrep.Repo.
type ReviewRepo struct {
	db *sqlx.DB
}

var _ spacedrep.Repo = (*ReviewRepo)(nil)

type reviewRow struct {
	UserID      int64          `db:"user_id"`
	ItemType    string         `db:"item_type"`
	ItemID      int64          `db:"item_id"`
	State       sql.NullString `db:"state"`
	Logs        string         `db:"logs"`
	LastAnswer  string         `db:"last_answer"`
	LastCorrect sql.NullBool   `db:"last_correct"`
	LastRating  int            `db:"last_rating"`
	InRotation  bool           `db:"in_rotation"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
	Version     int64          `db:"version"`
}

const reviewCols = `user_id, item_type, item_id, state, logs, last_answer, last_correct, last_rating, in_rotation, created_at, updated_at, version`

func (r *ReviewRepo) Load(ctx context.Context, key spacedrep.Key) (*spacedrep.ReviewRecord, error) {
	var row reviewRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+reviewCols+` FROM review_records
		WHERE user_id = ? AND item_type = ? AND item_id = ?`),
		key.UserID, string(key.Kind), key.ItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec, err := row.record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save inserts a new record or updates the stored one if its version still
// matches rec.Version. A lost race is reported as spacedrep.ErrConflict.
func (r *ReviewRepo) Save(ctx context.Context, rec *spacedrep.ReviewRecord) error {
	row, err := newReviewRow(rec)
	if err != nil {
		return err
	}
	var res sql.Result
	if rec.Version == 0 {
		res, err = r.db.NamedExecContext(ctx, `INSERT INTO review_records (`+reviewCols+`)
			VALUES (:user_id, :item_type, :item_id, :state, :logs, :last_answer, :last_correct, :last_rating, :in_rotation, :created_at, :updated_at, 1)
			ON CONFLICT (user_id, item_type, item_id) DO NOTHING`, row)
	} else {
		res, err = r.db.NamedExecContext(ctx, `UPDATE review_records SET
				state = :state,
				logs = :logs,
				last_answer = :last_answer,
				last_correct = :last_correct,
				last_rating = :last_rating,
				in_rotation = :in_rotation,
				updated_at = :updated_at,
				version = version + 1
			WHERE user_id = :user_id AND item_type = :item_type AND item_id = :item_id AND version = :version`, row)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return spacedrep.ErrConflict
	}
	rec.Version++
	return nil
}

func (r *ReviewRepo) ListInRotation(ctx context.Context, userID int64) ([]spacedrep.ReviewRecord, error) {
	return r.list(ctx, `SELECT `+reviewCols+` FROM review_records
		WHERE user_id = ? AND in_rotation = ?
		ORDER BY created_at, item_type, item_id`, userID, true)
}

func (r *ReviewRepo) ListByUser(ctx context.Context, userID int64) ([]spacedrep.ReviewRecord, error) {
	return r.list(ctx, `SELECT `+reviewCols+` FROM review_records
		WHERE user_id = ?
		ORDER BY created_at, item_type, item_id`, userID)
}

// Users returns every user id that has at least one graduated record.
func (r *ReviewRepo) Users(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, r.db.Rebind(`SELECT DISTINCT user_id FROM review_records
		WHERE in_rotation = ? ORDER BY user_id`), true)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

func (r *ReviewRepo) list(ctx context.Context, query string, args ...any) ([]spacedrep.ReviewRecord, error) {
	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]spacedrep.ReviewRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func newReviewRow(rec *spacedrep.ReviewRecord) (reviewRow, error) {
	row := reviewRow{
		UserID:     rec.UserID,
		ItemType:   string(rec.Kind),
		ItemID:     rec.ItemID,
		LastAnswer: rec.LastAnswer,
		LastRating: int(rec.LastRating),
		InRotation: rec.InRotation,
		CreatedAt:  formatTime(rec.CreatedAt),
		UpdatedAt:  formatTime(rec.UpdatedAt),
		Version:    rec.Version,
	}
	state, err := spacedrep.EncodeState(rec.State)
	if err != nil {
		return reviewRow{}, fmt.Errorf("encode state %s: %w", rec.Key, err)
	}
	if state != nil {
		row.State = sql.NullString{String: string(state), Valid: true}
	}
	logs, err := spacedrep.EncodeLogs(rec.Logs)
	if err != nil {
		return reviewRow{}, fmt.Errorf("encode logs %s: %w", rec.Key, err)
	}
	row.Logs = string(logs)
	if rec.LastCorrect != nil {
		row.LastCorrect = sql.NullBool{Bool: *rec.LastCorrect, Valid: true}
	}
	return row, nil
}

func (row reviewRow) record() (spacedrep.ReviewRecord, error) {
	key := spacedrep.Key{UserID: row.UserID, Kind: catalog.Kind(row.ItemType), ItemID: row.ItemID}
	rec := spacedrep.ReviewRecord{
		Key:        key,
		LastAnswer: row.LastAnswer,
		LastRating: spacedrep.Rating(row.LastRating),
		InRotation: row.InRotation,
		Version:    row.Version,
	}
	var err error
	if row.State.Valid {
		if rec.State, err = spacedrep.DecodeState([]byte(row.State.String)); err != nil {
			return rec, fmt.Errorf("record %s: %w", key, err)
		}
	}
	if rec.Logs, err = spacedrep.DecodeLogs([]byte(row.Logs)); err != nil {
		return rec, fmt.Errorf("record %s: %w", key, err)
	}
	if len(rec.Logs) == 0 {
		rec.Logs = nil
	}
	if row.LastCorrect.Valid {
		c := row.LastCorrect.Bool
		rec.LastCorrect = &c
	}
	if rec.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return rec, fmt.Errorf("record %s: %w", key, err)
	}
	if rec.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return rec, fmt.Errorf("record %s: %w", key, err)
	}
	return rec, nil
}
