package reliability

import (
	"errors"
	"testing"

	"github.com/aristath/ledgerwise/internal/database"
	testingpkg "github.com/aristath/ledgerwise/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyMaintenanceJob_Name(t *testing.T) {
	job := NewDailyMaintenanceJob("", zerolog.Nop())
	assert.Equal(t, "daily_maintenance", job.Name())
}

func TestDailyMaintenanceJob_Run(t *testing.T) {
	ledger := testingpkg.NewTestDB(t, "ledger")
	cache := testingpkg.NewTestDB(t, "cache")

	job := NewDailyMaintenanceJob(t.TempDir(), zerolog.Nop(), ledger, nil, cache)
	job.freeBytes = func(string) (uint64, error) { return 50 * 1024 * 1024 * 1024, nil }

	assert.NoError(t, job.Run())
}

func TestDailyMaintenanceJob_CriticalDiskSpace(t *testing.T) {
	job := NewDailyMaintenanceJob(t.TempDir(), zerolog.Nop(), testingpkg.NewTestDB(t, "ledger"))
	job.freeBytes = func(string) (uint64, error) { return 100 * 1024 * 1024, nil }

	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRITICAL")
}

func TestDailyMaintenanceJob_DiskUsageErrorIsNotFatal(t *testing.T) {
	job := NewDailyMaintenanceJob(t.TempDir(), zerolog.Nop())
	job.freeBytes = func(string) (uint64, error) { return 0, errors.New("statfs failed") }

	assert.NoError(t, job.Run())
}

func TestDailyMaintenanceJob_ClosedDatabaseFails(t *testing.T) {
	db := testingpkg.NewTestDB(t, "ledger")
	require.NoError(t, db.Close())

	job := NewDailyMaintenanceJob("", zerolog.Nop(), db)
	assert.Error(t, job.Run())
}

func TestWeeklyMaintenanceJob_VacuumsCacheOnly(t *testing.T) {
	ledger := testingpkg.NewTestDB(t, "ledger")
	cache := testingpkg.NewTestDB(t, "cache")
	require.Equal(t, database.ProfileCache, cache.Profile())

	job := NewWeeklyMaintenanceJob(zerolog.Nop(), ledger, cache, nil)
	assert.Equal(t, "weekly_maintenance", job.Name())
	assert.NoError(t, job.Run())
}
