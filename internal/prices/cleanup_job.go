package prices

import (
	"context"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/rs/zerolog"
)

// CleanupJob removes expired prices from the cache database
type CleanupJob struct {
	repo    *Repository
	clock   domain.Clock
	timeout time.Duration
	log     zerolog.Logger
}

// NewCleanupJob creates a price cache cleanup job
func NewCleanupJob(repo *Repository, clock domain.Clock, log zerolog.Logger) *CleanupJob {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &CleanupJob{
		repo:    repo,
		clock:   clock,
		timeout: time.Minute,
		log:     log.With().Str("job", "price_cache_cleanup").Logger(),
	}
}

// Run deletes every expired entry
func (j *CleanupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	deleted, err := j.repo.DeleteExpired(ctx, j.clock.Now())
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired prices")
		return err
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("Cleaned up expired prices")
	}
	return nil
}

// Name returns the job name for scheduling and logging
func (j *CleanupJob) Name() string {
	return "price_cache_cleanup"
}
