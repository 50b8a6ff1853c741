// Package scheduler runs background maintenance jobs on cron schedules and
// keeps a per-job record of how their runs went.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobStatus is the run history of one job
type JobStatus struct {
	LastRun      time.Time     `json:"last_run,omitempty"`
	NextRun      time.Time     `json:"next_run,omitempty"`
	Name         string        `json:"name"`
	Schedule     string        `json:"schedule,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	LastDuration time.Duration `json:"last_duration_ns"`
	Runs         int           `json:"runs"`
	Failures     int           `json:"failures"`
}

type jobState struct {
	status  JobStatus
	entryID cron.EntryID
	hasCron bool
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
	now  func() time.Time

	mu   sync.Mutex
	jobs map[string]*jobState
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
		now:  time.Now,
		jobs: make(map[string]*jobState),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", s.Entries()).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job under a cron schedule. Schedules carry a seconds field:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "@hourly"            - Every hour
//   - "0 0 3 * * *"        - 03:00 daily
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	id, err := s.cron.AddFunc(schedule, func() {
		_ = s.run(job, "schedule")
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	st := s.state(job.Name())
	st.status.Schedule = schedule
	st.entryID = id
	st.hasCron = true
	s.mu.Unlock()

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// Entries returns the number of jobs registered with cron
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// RunNow executes a job immediately, outside its schedule. The run is
// recorded like a scheduled one.
func (s *Scheduler) RunNow(job Job) error {
	return s.run(job, "manual")
}

// Status returns the run history of every job the scheduler has seen,
// ordered by name.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, st := range s.jobs {
		status := st.status
		if st.hasCron {
			status.NextRun = s.cron.Entry(st.entryID).Next
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) run(job Job, trigger string) error {
	name := job.Name()
	start := s.now()
	s.log.Debug().Str("job", name).Str("trigger", trigger).Msg("Running job")

	err := job.Run()
	elapsed := s.now().Sub(start)

	s.mu.Lock()
	st := s.state(name)
	st.status.Runs++
	st.status.LastRun = start
	st.status.LastDuration = elapsed
	st.status.LastError = ""
	if err != nil {
		st.status.Failures++
		st.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", name).
			Str("trigger", trigger).
			Dur("duration_ms", elapsed).
			Msg("Job failed")
		return err
	}
	s.log.Info().
		Str("job", name).
		Str("trigger", trigger).
		Dur("duration_ms", elapsed).
		Msg("Job completed")
	return nil
}

// state returns the record for name, creating it. Callers hold s.mu.
func (s *Scheduler) state(name string) *jobState {
	st, ok := s.jobs[name]
	if !ok {
		st = &jobState{status: JobStatus{Name: name}}
		s.jobs[name] = st
	}
	return st
}
