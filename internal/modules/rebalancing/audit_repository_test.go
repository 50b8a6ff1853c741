package rebalancing

import (
	"context"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	testingpkg "github.com/aristath/ledgerwise/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditRepository(t *testing.T) *AuditRepository {
	t.Helper()
	return NewAuditRepository(testingpkg.NewTestDB(t, "ledger"), zerolog.Nop())
}

func sampleExecution(id string, createdAt time.Time, status Status, noOp bool) *RebalanceExecution {
	return &RebalanceExecution{
		CreatedAt:     createdAt,
		ID:            id,
		Status:        status,
		NoOp:          noOp,
		Trades:        []Trade{{Action: ActionSell, Class: domain.ClassTraditional, Amount: 600}},
		RiskChecks:    []RiskCheck{{Name: CheckVolatility, Passed: true, Value: 18, Limit: 25}},
		OldAllocation: domain.Allocation{Traditional: 76, Longevity: 24},
		NewAllocation: domain.Allocation{Traditional: 70, Longevity: 30},
		Approved:      !noOp,
	}
}

func TestAuditRepository_RecordAndList(t *testing.T) {
	repo := newTestAuditRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, sampleExecution("a", base, StatusCompleted, false)))
	require.NoError(t, repo.Record(ctx, sampleExecution("b", base.Add(time.Hour), StatusPending, false)))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, 600.0, list[1].Trades[0].Amount)
	assert.Equal(t, 70.0, list[1].NewAllocation.Traditional)
	assert.True(t, list[1].CreatedAt.Equal(base))
}

func TestAuditRepository_AppendOnly(t *testing.T) {
	repo := newTestAuditRepository(t)
	ctx := context.Background()
	e := sampleExecution("dup", time.Now(), StatusCompleted, false)

	require.NoError(t, repo.Record(ctx, e))
	assert.Error(t, repo.Record(ctx, e))
}

func TestAuditRepository_LastCompleted(t *testing.T) {
	repo := newTestAuditRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	last, err := repo.LastCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, repo.Record(ctx, sampleExecution("done", base, StatusCompleted, false)))
	require.NoError(t, repo.Record(ctx, sampleExecution("noop", base.Add(time.Hour), StatusCompleted, true)))
	require.NoError(t, repo.Record(ctx, sampleExecution("pending", base.Add(2*time.Hour), StatusPending, false)))

	last, err = repo.LastCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, last.Equal(base))
}

func TestAuditRepository_DeleteOlderThan(t *testing.T) {
	repo := newTestAuditRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, sampleExecution("old", base.AddDate(0, 0, -400), StatusCompleted, false)))
	require.NoError(t, repo.Record(ctx, sampleExecution("new", base, StatusCompleted, false)))

	n, err := repo.DeleteOlderThan(ctx, base.AddDate(0, 0, -365))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)
}
