package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/llm"
)

// OracleRequest is one logged LLM call.
type OracleRequest struct {
	ID           int64
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Success      bool
	ErrorMessage string
	CreatedAt    time.Time
}

// RecordOracleRequest appends one LLM call to the audit log.
func (db *DB) RecordOracleRequest(ctx context.Context, ev llm.RequestEvent) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO oracle_requests (provider, model, purpose, latency_ms, input_tokens, output_tokens,
			cost_usd, success, error_message, request_body, response_body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.Provider, ev.Model, ev.Purpose, ev.LatencyMs, ev.InputTokens, ev.OutputTokens,
		ev.CostUSD, boolInt(ev.Success), ev.ErrorMessage, ev.RequestBody, ev.ResponseBody,
		time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert oracle request: %w", err)
	}
	return nil
}

// RecentOracleRequests lists the newest logged calls, without the raw
// request and response bodies.
func (db *DB) RecentOracleRequests(ctx context.Context, limit int) ([]*OracleRequest, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, provider, model, purpose, latency_ms, input_tokens, output_tokens,
			cost_usd, success, error_message, created_at
		FROM oracle_requests
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query oracle requests: %w", err)
	}
	defer rows.Close()

	var out []*OracleRequest
	for rows.Next() {
		var r OracleRequest
		var purpose, errMsg sql.NullString
		var success int
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Provider, &r.Model, &purpose, &r.LatencyMs,
			&r.InputTokens, &r.OutputTokens, &r.CostUSD, &success, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("scan oracle request: %w", err)
		}
		r.Purpose = purpose.String
		r.ErrorMessage = errMsg.String
		r.Success = success != 0
		r.CreatedAt = fromMilli(createdAt)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// OracleSpend sums the logged cost over the trailing window.
func (db *DB) OracleSpend(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost_usd), 0) FROM oracle_requests WHERE created_at >= ?
	`, since.UnixMilli()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum oracle spend: %w", err)
	}
	return total, nil
}
