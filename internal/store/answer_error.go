package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/grading"
)

// AnswerErrorRepo implements grading.ErrorRepo.
type AnswerErrorRepo struct {
	db *sqlx.DB
}

var _ grading.ErrorRepo = (*AnswerErrorRepo)(nil)

type answerErrorRow struct {
	ID            string `db:"id"`
	UserID        int64  `db:"user_id"`
	ItemType      string `db:"item_type"`
	ItemID        int64  `db:"item_id"`
	CorrectText   string `db:"correct_text"`
	SubmittedText string `db:"submitted_text"`
	Category      string `db:"category"`
	Rationale     string `db:"rationale"`
	Fallback      bool   `db:"fallback"`
	CreatedAt     string `db:"created_at"`
}

func (r *AnswerErrorRepo) Append(ctx context.Context, e *grading.AnswerError) error {
	row := answerErrorRow{
		ID:            e.ID,
		UserID:        e.UserID,
		ItemType:      string(e.Kind),
		ItemID:        e.ItemID,
		CorrectText:   e.Correct,
		SubmittedText: e.Submitted,
		Category:      string(e.Category),
		Rationale:     e.Rationale,
		Fallback:      e.Fallback,
		CreatedAt:     formatTime(e.CreatedAt),
	}
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO answer_errors
		(id, user_id, item_type, item_id, correct_text, submitted_text, category, rationale, fallback, created_at)
		VALUES (:id, :user_id, :item_type, :item_id, :correct_text, :submitted_text, :category, :rationale, :fallback, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("insert answer error: %w", err)
	}
	return nil
}

func (r *AnswerErrorRepo) ListByUser(ctx context.Context, userID int64) ([]grading.AnswerError, error) {
	var rows []answerErrorRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT
		id, user_id, item_type, item_id, correct_text, submitted_text, category, rationale, fallback, created_at
		FROM answer_errors WHERE user_id = ?
		ORDER BY created_at, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list answer errors for user %d: %w", userID, err)
	}

	out := make([]grading.AnswerError, 0, len(rows))
	for _, row := range rows {
		created, err := parseTime(row.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, grading.AnswerError{
			ID:        row.ID,
			UserID:    row.UserID,
			Kind:      catalog.Kind(row.ItemType),
			ItemID:    row.ItemID,
			Correct:   row.CorrectText,
			Submitted: row.SubmittedText,
			Category:  diagnosis.Category(row.Category),
			Rationale: row.Rationale,
			Fallback:  row.Fallback,
			CreatedAt: created,
		})
	}
	return out, nil
}
