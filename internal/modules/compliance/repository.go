package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/ledgerwise/internal/database"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ReportRepository stores compliance reports for later filing
type ReportRepository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewReportRepository creates a report repository on the ledger database
func NewReportRepository(db *database.DB, log zerolog.Logger) *ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log.With().Str("repo", "compliance_reports").Logger(),
	}
}

// Save stores a report
func (r *ReportRepository) Save(ctx context.Context, report *ComplianceReport) error {
	payload, err := msgpack.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode compliance report: %w", err)
	}

	overall := 0
	if report.OverallCompliant {
		overall = 1
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO compliance_reports (id, generated_at, overall_compliant, payload)
		VALUES (?, ?, ?, ?)`,
		report.ID, report.Timestamp.Unix(), overall, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert compliance report %s: %w", report.ID, err)
	}
	return nil
}

// ListBetween returns reports generated in [from, to], oldest first
func (r *ReportRepository) ListBetween(ctx context.Context, from, to time.Time) ([]ComplianceReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM compliance_reports
		WHERE generated_at >= ? AND generated_at <= ?
		ORDER BY generated_at ASC, rowid ASC`, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance reports: %w", err)
	}
	defer rows.Close()

	reports := make([]ComplianceReport, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan compliance report: %w", err)
		}
		var report ComplianceReport
		if err := msgpack.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("failed to decode compliance report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance reports: %w", err)
	}

	r.log.Debug().Int("count", len(reports)).Msg("Loaded compliance reports")
	return reports, nil
}

// DeleteOlderThan removes reports generated before cutoff
func (r *ReportRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM compliance_reports WHERE generated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old compliance reports: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
