package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexicon/internal/llm"
)

// LLMEventRepo stores one row per model call. It implements
// llm.EventRecorder.
type LLMEventRepo struct {
	db *sqlx.DB
}

var _ llm.EventRecorder = (*LLMEventRepo)(nil)

// LLMEvent is a stored llm.Event.
type LLMEvent struct {
	ID string
	llm.Event
}

type llmEventRow struct {
	ID           string `db:"id"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	RequestBody  string `db:"request_body"`
	ResponseBody string `db:"response_body"`
	CreatedAt    string `db:"created_at"`
}

const llmEventCols = `id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at`

func (r *LLMEventRepo) RecordLLMRequest(ctx context.Context, ev llm.Event) error {
	row := llmEventRow{
		ID:           uuid.NewString(),
		Provider:     ev.Provider,
		Model:        ev.Model,
		Purpose:      ev.Purpose,
		InputTokens:  ev.InputTokens,
		OutputTokens: ev.OutputTokens,
		LatencyMs:    ev.LatencyMs,
		Success:      ev.Success,
		ErrorMessage: ev.ErrorMessage,
		RequestBody:  ev.RequestBody,
		ResponseBody: ev.ResponseBody,
		CreatedAt:    formatTime(ev.Timestamp),
	}
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO llm_events (`+llmEventCols+`)
		VALUES (:id, :provider, :model, :purpose, :input_tokens, :output_tokens, :latency_ms, :success, :error_message, :request_body, :response_body, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// List returns the newest events first. limit <= 0 returns all.
func (r *LLMEventRepo) List(ctx context.Context, limit int) ([]LLMEvent, error) {
	query := `SELECT ` + llmEventCols + ` FROM llm_events ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []llmEventRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list LLM events: %w", err)
	}

	out := make([]LLMEvent, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTime(row.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, LLMEvent{ID: row.ID, Event: llm.Event{
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
			Timestamp:    ts,
		}})
	}
	return out, nil
}

// LLMUsage aggregates calls per provider and model.
type LLMUsage struct {
	Provider     string  `db:"provider"`
	Model        string  `db:"model"`
	Calls        int     `db:"calls"`
	Failures     int     `db:"failures"`
	InputTokens  int64   `db:"input_tokens"`
	OutputTokens int64   `db:"output_tokens"`
	AvgLatencyMs float64 `db:"avg_latency_ms"`
}

// CostUSD estimates the spend, or returns false for unpriced models.
func (u LLMUsage) CostUSD() (float64, bool) {
	c := llm.LookupCost(u.Model)
	if c == nil {
		return 0, false
	}
	return c.Cost(int(u.InputTokens), int(u.OutputTokens)), true
}

// Usage returns per provider/model totals ordered by call count.
func (r *LLMEventRepo) Usage(ctx context.Context) ([]LLMUsage, error) {
	var out []LLMUsage
	err := r.db.SelectContext(ctx, &out, `SELECT provider, model,
		COUNT(*) AS calls,
		SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failures,
		COALESCE(SUM(input_tokens), 0) AS input_tokens,
		COALESCE(SUM(output_tokens), 0) AS output_tokens,
		COALESCE(AVG(latency_ms), 0) AS avg_latency_ms
		FROM llm_events
		GROUP BY provider, model
		ORDER BY calls DESC, provider, model`)
	if err != nil {
		return nil, fmt.Errorf("LLM usage: %w", err)
	}
	return out, nil
}
