package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/ledgerwise/internal/database"
	"github.com/aristath/ledgerwise/internal/modules/market_hours"
	"github.com/aristath/ledgerwise/internal/scheduler"
)

// SystemHandlers serves host, database and job endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	databases   []*database.DB
	marketHours *market_hours.MarketHoursService
	jobs        map[string]scheduler.Job
	scheduler   *scheduler.Scheduler
	startedAt   time.Time
}

// NewSystemHandlers creates system handlers. Nil databases are ignored.
// Manual job runs go through sched so they show up in its run history; a
// nil sched gets a private scheduler that only records manual runs.
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	databases []*database.DB,
	marketHours *market_hours.MarketHoursService,
	jobs []scheduler.Job,
	sched *scheduler.Scheduler,
) *SystemHandlers {
	if sched == nil {
		sched = scheduler.New(log)
	}
	dbs := make([]*database.DB, 0, len(databases))
	for _, db := range databases {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	byName := make(map[string]scheduler.Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name()] = j
	}
	return &SystemHandlers{
		log:         log.With().Str("service", "system").Logger(),
		dataDir:     dataDir,
		databases:   dbs,
		marketHours: marketHours,
		jobs:        byName,
		scheduler:   sched,
		startedAt:   time.Now(),
	}
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Timestamp     string            `json:"timestamp"`
	Uptime        string            `json:"uptime"`
	GoVersion     string            `json:"go_version"`
	Market        interface{}       `json:"market,omitempty"`
	Databases     []*database.Stats `json:"databases"`
	CPUPercent    float64           `json:"cpu_percent"`
	MemoryPercent float64           `json:"memory_percent"`
	DiskPercent   float64           `json:"disk_percent"`
	Goroutines    int               `json:"goroutines"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Timestamp:     time.Now().Format(time.RFC3339),
		Uptime:        time.Since(h.startedAt).Round(time.Second).String(),
		GoVersion:     runtime.Version(),
		Databases:     h.databaseStats(r),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		DiskPercent:   h.getDiskUsage(),
		Goroutines:    runtime.NumGoroutine(),
	}
	if h.marketHours != nil {
		response.Market = h.marketHours.GetMarketStatus(time.Now())
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleDatabaseStats handles GET /api/system/databases
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := h.databaseStats(r)

	var totalBytes int64
	for _, s := range stats {
		totalBytes += s.SizeBytes + s.WALSizeBytes
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"databases":     stats,
		"total_size_mb": float64(totalBytes) / 1024 / 1024,
	})
}

// HandleListJobs handles GET /api/jobs. Jobs that have never been scheduled
// or run are listed by name only.
func (h *SystemHandlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	status := []scheduler.JobStatus{}
	for _, st := range h.scheduler.Status() {
		if _, ok := h.jobs[st.Name]; ok {
			status = append(status, st)
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   names,
		"status": status,
	})
}

// HandleTriggerJob handles POST /api/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request, name string) {
	job, ok := h.jobs[name]
	if !ok {
		http.Error(w, "Unknown job", http.StatusNotFound)
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job run triggered")
	if err := h.scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": name + " completed",
	})
}

func (h *SystemHandlers) databaseStats(r *http.Request) []*database.Stats {
	stats := make([]*database.Stats, 0, len(h.databases))
	for _, db := range h.databases {
		s, err := db.GetStats(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			continue
		}
		stats = append(stats, s)
	}
	return stats
}

// getSystemStats returns CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) getDiskUsage() float64 {
	if h.dataDir == "" {
		return 0
	}
	usage, err := disk.Usage(h.dataDir)
	if err != nil {
		h.log.Warn().Err(err).Str("path", h.dataDir).Msg("Failed to get disk usage")
		return 0
	}
	return usage.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
