package rebalancing

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SimulatedExecutor fills trades immediately without a broker
type SimulatedExecutor struct {
	latency time.Duration
	log     zerolog.Logger
}

// NewSimulatedExecutor creates an executor that waits latency per trade
func NewSimulatedExecutor(latency time.Duration, log zerolog.Logger) *SimulatedExecutor {
	return &SimulatedExecutor{
		latency: latency,
		log:     log.With().Str("component", "simulated_executor").Logger(),
	}
}

// ExecuteTrades logs each trade as filled
func (s *SimulatedExecutor) ExecuteTrades(ctx context.Context, executionID string, trades []Trade) error {
	for _, t := range trades {
		if s.latency > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.latency):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		s.log.Info().
			Str("execution_id", executionID).
			Str("action", string(t.Action)).
			Str("class", string(t.Class)).
			Float64("amount", t.Amount).
			Msg("Trade filled")
	}
	return nil
}
