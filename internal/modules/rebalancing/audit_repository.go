package rebalancing

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/ledgerwise/internal/database"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// AuditRepository is the append-only ledger of rebalance executions
type AuditRepository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewAuditRepository creates an audit repository on the ledger database
func NewAuditRepository(db *database.DB, log zerolog.Logger) *AuditRepository {
	return &AuditRepository{
		db:  db,
		log: log.With().Str("repo", "rebalance_audit").Logger(),
	}
}

// Record appends an execution. Recording the same ID twice is an error.
func (r *AuditRepository) Record(ctx context.Context, execution *RebalanceExecution) error {
	payload, err := msgpack.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to encode execution: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rebalance_executions (id, status, approved, no_op, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		execution.ID, string(execution.Status), boolToInt(execution.Approved), boolToInt(execution.NoOp),
		execution.CreatedAt.Unix(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution %s: %w", execution.ID, err)
	}

	r.log.Debug().Str("execution_id", execution.ID).Str("status", string(execution.Status)).Msg("Execution recorded")
	return nil
}

// List returns the most recent executions, newest first
func (r *AuditRepository) List(ctx context.Context, limit int) ([]RebalanceExecution, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM rebalance_executions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	executions := make([]RebalanceExecution, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		var execution RebalanceExecution
		if err := msgpack.Unmarshal(payload, &execution); err != nil {
			return nil, fmt.Errorf("failed to decode execution: %w", err)
		}
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}
	return executions, nil
}

// LastCompleted returns when the most recent non-no-op execution completed,
// or the zero time when there is none.
func (r *AuditRepository) LastCompleted(ctx context.Context) (time.Time, error) {
	var createdAt *int64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(created_at) FROM rebalance_executions
		WHERE status = ? AND no_op = 0`, string(StatusCompleted)).Scan(&createdAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last rebalance: %w", err)
	}
	if createdAt == nil {
		return time.Time{}, nil
	}
	return time.Unix(*createdAt, 0).UTC(), nil
}

// DeleteOlderThan removes executions created before cutoff
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rebalance_executions WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old executions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
