package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/rs/zerolog"
)

// Pruner deletes records created before a cutoff
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRetentionJob prunes rebalance executions and compliance reports past retention
type AuditRetentionJob struct {
	pruners   map[string]Pruner
	clock     domain.Clock
	retention time.Duration
	log       zerolog.Logger
}

// NewAuditRetentionJob creates a retention job. pruners is keyed by ledger name.
func NewAuditRetentionJob(pruners map[string]Pruner, retention time.Duration, clock domain.Clock, log zerolog.Logger) *AuditRetentionJob {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &AuditRetentionJob{
		pruners:   pruners,
		clock:     clock,
		retention: retention,
		log:       log.With().Str("job", "audit_retention").Logger(),
	}
}

// Name returns the job name
func (j *AuditRetentionJob) Name() string {
	return "audit_retention"
}

// Run deletes every record older than the retention window. All pruners are
// attempted; the first failure is returned.
func (j *AuditRetentionJob) Run() error {
	if j.retention <= 0 {
		return fmt.Errorf("audit retention must be positive")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := j.clock.Now().Add(-j.retention)
	var firstErr error
	for name, p := range j.pruners {
		deleted, err := p.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			j.log.Error().Err(err).Str("ledger", name).Msg("Failed to prune audit records")
			if firstErr == nil {
				firstErr = fmt.Errorf("prune %s: %w", name, err)
			}
			continue
		}
		if deleted > 0 {
			j.log.Info().
				Str("ledger", name).
				Int64("deleted", deleted).
				Time("cutoff", cutoff).
				Msg("Pruned audit records")
		}
	}
	return firstErr
}
