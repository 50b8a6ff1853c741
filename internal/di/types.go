// Package di wires databases, services, handlers and jobs into one container.
package di

import (
	"time"

	"github.com/aristath/ledgerwise/internal/clients/gemini"
	"github.com/aristath/ledgerwise/internal/database"
	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/compliance"
	"github.com/aristath/ledgerwise/internal/modules/idle"
	"github.com/aristath/ledgerwise/internal/modules/market_hours"
	"github.com/aristath/ledgerwise/internal/modules/narrative"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	"github.com/aristath/ledgerwise/internal/modules/risk"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"github.com/aristath/ledgerwise/internal/prices"
	"github.com/aristath/ledgerwise/internal/scheduler"
)

// Container holds all dependencies for the application.
//
// Databases:
//   - ledger.db: rebalance executions and compliance reports (append-mostly audit trail)
//   - cache.db: last known asset prices
type Container struct {
	LedgerDB *database.DB
	CacheDB  *database.DB

	Clock domain.Clock

	// Optional text generation backend. Nil when no API key is configured.
	Gemini *gemini.Client

	MarketHours *market_hours.MarketHoursService
	Narrative   *narrative.Service

	TransactionAnalyzer   *transactions.Analyzer
	TransactionStore      *transactions.MemoryStore
	TransactionClassifier transactions.Classifier
	ClassifierTimeout     time.Duration

	RiskScorer   *risk.Scorer
	IdleDetector *idle.Detector

	RebalanceEngine *rebalancing.Engine
	AuditRepo       *rebalancing.AuditRepository

	ComplianceGate *compliance.Gate
	ReportRepo     *compliance.ReportRepository

	PriceSource  *prices.ManualSource
	PriceRepo    *prices.Repository
	PriceService *prices.Service
}

// JobInstances holds the scheduled jobs so they can be triggered via the API
type JobInstances struct {
	PriceCleanup   scheduler.Job
	PriceRefresh   scheduler.Job
	AuditRetention scheduler.Job
	WALCheckpoint  scheduler.Job

	DailyMaintenance  scheduler.Job
	WeeklyMaintenance scheduler.Job
}

// All returns the jobs in registration order
func (j *JobInstances) All() []scheduler.Job {
	return []scheduler.Job{
		j.PriceRefresh,
		j.PriceCleanup,
		j.AuditRetention,
		j.WALCheckpoint,
		j.DailyMaintenance,
		j.WeeklyMaintenance,
	}
}

// Close closes every open database
func (c *Container) Close() {
	if c.LedgerDB != nil {
		c.LedgerDB.Close()
	}
	if c.CacheDB != nil {
		c.CacheDB.Close()
	}
}
