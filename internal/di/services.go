package di

import (
	"context"
	"fmt"

	"github.com/aristath/ledgerwise/internal/clients/gemini"
	"github.com/aristath/ledgerwise/internal/config"
	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/compliance"
	"github.com/aristath/ledgerwise/internal/modules/idle"
	"github.com/aristath/ledgerwise/internal/modules/market_hours"
	"github.com/aristath/ledgerwise/internal/modules/narrative"
	"github.com/aristath/ledgerwise/internal/modules/rebalancing"
	"github.com/aristath/ledgerwise/internal/modules/risk"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"github.com/aristath/ledgerwise/internal/prices"
	"github.com/rs/zerolog"
)

// InitializeServices creates repositories and services on top of the open databases
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.Clock == nil {
		container.Clock = domain.SystemClock{}
	}

	marketHours, err := market_hours.NewMarketHoursService(cfg.MarketTimezone, log)
	if err != nil {
		return fmt.Errorf("failed to create market hours service: %w", err)
	}
	container.MarketHours = marketHours

	// Narrative generation. Without a backend the service always renders the template.
	var explainer narrative.Explainer
	if cfg.NarrativeEnabled() {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, log)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create Gemini client, narratives will use templates")
		} else {
			container.Gemini = client
			explainer = gemini.NewExplainer(client)
			container.TransactionClassifier = gemini.NewClassifier(client)
		}
	}
	container.Narrative = narrative.NewService(explainer, cfg.NarrativeTimeout, log)

	container.TransactionAnalyzer = transactions.NewAnalyzer(log)
	container.TransactionStore = transactions.NewMemoryStore()
	container.ClassifierTimeout = cfg.ClassifierTimeout

	container.RiskScorer = risk.NewScorer(container.Narrative, cfg.VolatilityThreshold, log)
	container.IdleDetector = idle.NewDetector(container.Clock, log)

	container.AuditRepo = rebalancing.NewAuditRepository(container.LedgerDB, log)
	thresholds := rebalancing.DefaultThresholds()
	thresholds.Drift = cfg.DriftThreshold
	thresholds.Volatility = cfg.VolatilityThreshold
	container.RebalanceEngine = rebalancing.NewEngine(
		thresholds,
		marketHours,
		rebalancing.NewSimulatedExecutor(0, log),
		container.AuditRepo,
		container.Clock,
		log,
	)

	container.ComplianceGate = compliance.NewGate(compliance.DefaultPolicy(), log)
	container.ReportRepo = compliance.NewReportRepository(container.LedgerDB, log)

	container.PriceSource = prices.NewManualSource()
	container.PriceRepo = prices.NewRepository(container.CacheDB)
	container.PriceService = prices.NewService(container.PriceSource, container.PriceRepo, container.Clock, cfg.PriceTTL, log)

	log.Info().
		Bool("narrative_backend", container.Gemini != nil).
		Str("market_timezone", cfg.MarketTimezone).
		Msg("Services initialized")

	return nil
}
