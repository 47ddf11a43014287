package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/profile"
)

// ProfileRepo implements profile.Repo.
type ProfileRepo struct {
	db *sqlx.DB
}

var _ profile.Repo = (*ProfileRepo)(nil)

type profileRow struct {
	UserID        int64   `db:"user_id"`
	Categories    string  `db:"categories"`
	CurrentLevel  string  `db:"current_level"`
	TargetLevel   string  `db:"target_level"`
	DesiredLevel  string  `db:"desired_level"`
	DailyMinutes  int     `db:"daily_minutes"`
	LearningSpeed float64 `db:"learning_speed"`
	Region        string  `db:"region"`
	Public        bool    `db:"public"`
}

const profileCols = `user_id, categories, current_level, target_level, desired_level, daily_minutes, learning_speed, region, public`

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (*profile.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+profileCols+` FROM profiles WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", userID, err)
	}

	cats, err := decodeList[int](row.Categories)
	if err != nil {
		return nil, fmt.Errorf("profile %d categories: %w", userID, err)
	}
	if len(cats) == 0 {
		cats = nil
	}
	p := &profile.Profile{
		UserID:        row.UserID,
		Categories:    cats,
		DailyMinutes:  row.DailyMinutes,
		LearningSpeed: row.LearningSpeed,
		Region:        row.Region,
		Public:        row.Public,
	}
	for _, l := range []struct {
		dst *catalog.Level
		raw string
	}{
		{&p.CurrentLevel, row.CurrentLevel},
		{&p.TargetLevel, row.TargetLevel},
		{&p.DesiredLevel, row.DesiredLevel},
	} {
		if *l.dst, err = catalog.ParseLevel(l.raw); err != nil {
			return nil, fmt.Errorf("profile %d: %w", userID, err)
		}
	}
	return p, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	cats, err := encodeList(p.Categories)
	if err != nil {
		return err
	}
	row := profileRow{
		UserID:        p.UserID,
		Categories:    cats,
		CurrentLevel:  p.CurrentLevel.String(),
		TargetLevel:   p.TargetLevel.String(),
		DesiredLevel:  p.DesiredLevel.String(),
		DailyMinutes:  p.DailyMinutes,
		LearningSpeed: p.LearningSpeed,
		Region:        p.Region,
		Public:        p.Public,
	}
	_, err = r.db.NamedExecContext(ctx, `INSERT INTO profiles (`+profileCols+`)
		VALUES (:user_id, :categories, :current_level, :target_level, :desired_level, :daily_minutes, :learning_speed, :region, :public)
		ON CONFLICT (user_id) DO UPDATE SET
			categories = excluded.categories,
			current_level = excluded.current_level,
			target_level = excluded.target_level,
			desired_level = excluded.desired_level,
			daily_minutes = excluded.daily_minutes,
			learning_speed = excluded.learning_speed,
			region = excluded.region,
			public = excluded.public`, row)
	if err != nil {
		return fmt.Errorf("save profile %d: %w", p.UserID, err)
	}
	return nil
}
