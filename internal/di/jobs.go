package di

import (
	"fmt"

	"github.com/aristath/ledgerwise/internal/config"
	"github.com/aristath/ledgerwise/internal/prices"
	"github.com/aristath/ledgerwise/internal/reliability"
	"github.com/aristath/ledgerwise/internal/scheduler"
	"github.com/rs/zerolog"
)

// Job schedules (cron with seconds)
const (
	PriceRefreshSchedule   = "0 */5 * * * *"
	PriceCleanupSchedule   = "0 30 * * * *"
	AuditRetentionSchedule = "0 0 3 * * *"
	WALCheckpointSchedule  = "0 */15 * * * *"

	DailyMaintenanceSchedule  = "0 0 2 * * *"
	WeeklyMaintenanceSchedule = "0 30 3 * * 0"
)

// RegisterJobs creates the background jobs and registers them with the scheduler.
// sched may be nil, in which case the jobs are only returned for manual triggering.
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{
		PriceRefresh: prices.NewRefreshJob(container.PriceService, log),
		PriceCleanup: prices.NewCleanupJob(container.PriceRepo, container.Clock, log),
		AuditRetention: scheduler.NewAuditRetentionJob(map[string]scheduler.Pruner{
			"rebalance_executions": container.AuditRepo,
			"compliance_reports":   container.ReportRepo,
		}, cfg.AuditRetention, container.Clock, log),
		WALCheckpoint:     scheduler.NewCheckWALCheckpointsJob(log, container.LedgerDB, container.CacheDB),
		DailyMaintenance:  reliability.NewDailyMaintenanceJob(cfg.DataDir, log, container.LedgerDB, container.CacheDB),
		WeeklyMaintenance: reliability.NewWeeklyMaintenanceJob(log, container.LedgerDB, container.CacheDB),
	}

	if sched == nil {
		return instances, nil
	}

	schedules := map[string]string{
		instances.PriceRefresh.Name():   PriceRefreshSchedule,
		instances.PriceCleanup.Name():   PriceCleanupSchedule,
		instances.AuditRetention.Name(): AuditRetentionSchedule,
		instances.WALCheckpoint.Name():  WALCheckpointSchedule,

		instances.DailyMaintenance.Name():  DailyMaintenanceSchedule,
		instances.WeeklyMaintenance.Name(): WeeklyMaintenanceSchedule,
	}
	for _, job := range instances.All() {
		if err := sched.AddJob(schedules[job.Name()], job); err != nil {
			return nil, fmt.Errorf("failed to register job %s: %w", job.Name(), err)
		}
	}

	log.Info().Int("jobs", len(schedules)).Msg("Jobs registered")

	return instances, nil
}
