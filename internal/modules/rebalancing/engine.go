package rebalancing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultExecutionTimeout bounds a single TradeExecutor call
const DefaultExecutionTimeout = 30 * time.Second

// TradeExecutor places approved trades
type TradeExecutor interface {
	ExecuteTrades(ctx context.Context, executionID string, trades []Trade) error
}

// AuditRecorder appends executions to the audit ledger
type AuditRecorder interface {
	Record(ctx context.Context, execution *RebalanceExecution) error
}

// Engine runs the evaluate → propose → risk-check → execute pipeline
type Engine struct {
	triggers   *TriggerChecker
	thresholds Thresholds
	hours      MarketClock
	executor   TradeExecutor
	recorder   AuditRecorder
	clock      domain.Clock
	timeout    time.Duration
	log        zerolog.Logger
}

// NewEngine creates a rebalance engine. executor and recorder may be nil:
// without an executor approved proposals stay pending, and without a
// recorder nothing is persisted.
func NewEngine(
	thresholds Thresholds,
	hours MarketClock,
	executor TradeExecutor,
	recorder AuditRecorder,
	clock domain.Clock,
	log zerolog.Logger,
) *Engine {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Engine{
		triggers:   NewTriggerChecker(thresholds, log),
		thresholds: thresholds,
		hours:      hours,
		executor:   executor,
		recorder:   recorder,
		clock:      clock,
		timeout:    DefaultExecutionTimeout,
		log:        log.With().Str("service", "rebalancing").Logger(),
	}
}

// WithExecutionTimeout overrides the executor timeout
func (e *Engine) WithExecutionTimeout(d time.Duration) *Engine {
	if d > 0 {
		e.timeout = d
	}
	return e
}

// Thresholds returns the configured limits
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// AssessRebalanceNeed evaluates the rebalance triggers for a snapshot
func (e *Engine) AssessRebalanceNeed(snapshot Snapshot) *Assessment {
	return e.triggers.AssessRebalanceNeed(snapshot)
}

// GenerateRebalanceTrades sizes trades for a snapshot
func (e *Engine) GenerateRebalanceTrades(snapshot Snapshot) []Trade {
	return GenerateRebalanceTrades(snapshot)
}

// PerformRiskGovernanceChecks runs the guardrails against the engine's market clock
func (e *Engine) PerformRiskGovernanceChecks(snapshot Snapshot, trades []Trade, at time.Time) []RiskCheck {
	return PerformRiskGovernanceChecks(snapshot, trades, at, e.hours, e.thresholds)
}

// ExecuteRebalancing evaluates a snapshot and, when a proposal passes every
// risk check, executes it. Check failures and executor failures are recorded
// on the execution rather than returned. An error is returned only when ctx
// is already done or the audit ledger cannot be written.
func (e *Engine) ExecuteRebalancing(ctx context.Context, snapshot Snapshot) (*RebalanceExecution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	assessment := e.AssessRebalanceNeed(snapshot)
	execution := &RebalanceExecution{
		CreatedAt:     now,
		ID:            uuid.New().String(),
		Trades:        []Trade{},
		RiskChecks:    []RiskCheck{},
		OldAllocation: assessment.CurrentAllocation,
		NewAllocation: assessment.CurrentAllocation,
	}

	if !assessment.ShouldRebalance {
		execution.Status = StatusCompleted
		execution.NoOp = true
		execution.Reason = assessment.Reason
		execution.CompletedAt = &now
		return execution, e.record(ctx, execution)
	}

	trades := e.GenerateRebalanceTrades(snapshot)
	checks := e.PerformRiskGovernanceChecks(snapshot, trades, now)
	execution.Trades = trades
	execution.RiskChecks = checks
	execution.NewAllocation = ProjectAllocation(snapshot.Assets, trades)
	execution.Approved = AllPassed(checks)
	execution.Status = StatusPending

	log := e.log.With().Str("execution_id", execution.ID).Logger()

	if !execution.Approved {
		execution.Reason = fmt.Sprintf("%s; awaiting review, failed checks: %s",
			assessment.Reason, strings.Join(failedNames(checks), ", "))
		log.Warn().Strs("failed_checks", failedNames(checks)).Msg("Rebalance proposal not approved")
		return execution, e.record(ctx, execution)
	}

	if e.executor == nil {
		execution.Reason = assessment.Reason + "; approved, no trade executor configured"
		log.Warn().Msg("Approved rebalance left pending without executor")
		return execution, e.record(ctx, execution)
	}

	execution.Status = StatusExecuting
	execution.Reason = assessment.Reason
	log.Info().Int("trades", len(trades)).Msg("Executing rebalance")

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	err := e.executor.ExecuteTrades(execCtx, execution.ID, trades)
	cancel()

	finished := e.clock.Now()
	execution.CompletedAt = &finished
	if err != nil {
		execution.Status = StatusFailed
		execution.Error = err.Error()
		log.Error().Err(err).Msg("Rebalance execution failed")
	} else {
		execution.Status = StatusCompleted
		log.Info().
			Float64("traditional", execution.NewAllocation.Traditional).
			Float64("longevity", execution.NewAllocation.Longevity).
			Msg("Rebalance completed")
	}

	// The ledger write outlives a cancelled request
	return execution, e.record(context.WithoutCancel(ctx), execution)
}

func (e *Engine) record(ctx context.Context, execution *RebalanceExecution) error {
	if e.recorder == nil {
		return nil
	}
	if err := e.recorder.Record(ctx, execution); err != nil {
		e.log.Error().Err(err).Str("execution_id", execution.ID).Msg("Failed to record rebalance execution")
		return fmt.Errorf("record rebalance execution %s: %w", execution.ID, err)
	}
	return nil
}
