package di

import (
	"context"
	"fmt"

	"github.com/aristath/ledgerwise/internal/config"
	compliancehandlers "github.com/aristath/ledgerwise/internal/modules/compliance/handlers"
	idlehandlers "github.com/aristath/ledgerwise/internal/modules/idle/handlers"
	markethourshandlers "github.com/aristath/ledgerwise/internal/modules/market_hours/handlers"
	rebalancinghandlers "github.com/aristath/ledgerwise/internal/modules/rebalancing/handlers"
	riskhandlers "github.com/aristath/ledgerwise/internal/modules/risk/handlers"
	transactionshandlers "github.com/aristath/ledgerwise/internal/modules/transactions/handlers"
	"github.com/aristath/ledgerwise/internal/scheduler"
	"github.com/aristath/ledgerwise/internal/server"
	"github.com/rs/zerolog"
)

// Wire initializes all dependencies and returns a fully configured container.
// Order of operations:
// 1. Initialize databases
// 2. Initialize services
// 3. Register jobs
func Wire(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*Container, *JobInstances, error) {
	container, err := InitializeDatabases(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := InitializeServices(ctx, container, cfg, log); err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	jobs, err := RegisterJobs(container, cfg, sched, log)
	if err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	return container, jobs, nil
}

// Modules builds the HTTP handlers for every module
func Modules(container *Container, log zerolog.Logger) []server.RouteRegistrar {
	return []server.RouteRegistrar{
		transactionshandlers.NewHandler(container.TransactionAnalyzer, container.TransactionClassifier, container.TransactionStore, log).
			WithClassifyTimeout(container.ClassifierTimeout),
		riskhandlers.NewHandler(container.RiskScorer, container.TransactionStore, container.Clock, log),
		idlehandlers.NewHandler(container.IdleDetector, log),
		rebalancinghandlers.NewHandler(container.RebalanceEngine, container.AuditRepo, container.PriceService, container.Clock, log),
		compliancehandlers.NewHandler(container.ComplianceGate, container.ReportRepo, container.Clock, log),
		markethourshandlers.NewHandler(container.MarketHours, container.Clock, log),
	}
}
