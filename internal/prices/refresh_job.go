package prices

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshJob keeps tracked prices warm so request paths rarely hit the source
type RefreshJob struct {
	service *Service
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates a price refresh job
func NewRefreshJob(service *Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "price_refresh").Logger(),
	}
}

// Run refreshes stale tracked prices
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.service.RefreshTracked(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Price refresh failed")
		return err
	}
	j.log.Debug().
		Int("updated", len(result.Updated)).
		Int("kept", len(result.Kept)).
		Msg("Price refresh completed")
	return nil
}

// Name returns the job name for scheduling and logging
func (j *RefreshJob) Name() string {
	return "price_refresh"
}
