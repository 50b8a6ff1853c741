package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (p *fakePruner) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return p.deleted, p.err
}

func TestAuditRetentionJob_Run(t *testing.T) {
	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
	executions := &fakePruner{deleted: 3}
	reports := &fakePruner{}

	job := NewAuditRetentionJob(map[string]Pruner{
		"rebalance_executions": executions,
		"compliance_reports":   reports,
	}, 30*24*time.Hour, domain.FixedClock(now), zerolog.Nop())

	assert.Equal(t, "audit_retention", job.Name())
	assert.NoError(t, job.Run())

	want := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, want, executions.cutoff)
	assert.Equal(t, want, reports.cutoff)
}

func TestAuditRetentionJob_ContinuesAfterFailure(t *testing.T) {
	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
	boom := errors.New("disk full")
	failing := &fakePruner{err: boom}
	healthy := &fakePruner{}

	job := NewAuditRetentionJob(map[string]Pruner{
		"a": failing,
		"b": healthy,
	}, 24*time.Hour, domain.FixedClock(now), zerolog.Nop())

	err := job.Run()
	assert.ErrorIs(t, err, boom)
	assert.False(t, healthy.cutoff.IsZero())
}

func TestAuditRetentionJob_RejectsZeroRetention(t *testing.T) {
	job := NewAuditRetentionJob(nil, 0, nil, zerolog.Nop())
	assert.Error(t, job.Run())
}
