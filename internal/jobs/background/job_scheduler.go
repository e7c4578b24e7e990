package background

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockpulse/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	JobAnalyticsRefresh = "tenant-analytics-refresh"
	JobStockAlerts      = "stock-alerts"
)

var ErrJobNotFound = errors.New("job not found")

// Refresher recomputes every active tenant's dashboard.
type Refresher interface {
	RefreshAllTenantsAnalytics(ctx context.Context) (*jobs.AnalyticsRefreshResult, error)
}

// AlertSweeper publishes every active tenant's warnings.
type AlertSweeper interface {
	ProcessAllTenantAlerts(ctx context.Context) (*jobs.StockAlertResult, error)
}

type Intervals struct {
	Refresh time.Duration
	Alerts  time.Duration
}

// JobStatus describes one registered job.
type JobStatus struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run,omitempty"`
	LastRun time.Time `json:"last_run,omitempty"`
}

// JobScheduler runs the periodic analytics jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	refresher Refresher
	alerts    AlertSweeper
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewJobScheduler creates a scheduler with the refresh and alert jobs registered. A zero interval
// disables the corresponding job.
func NewJobScheduler(refresher Refresher, alerts AlertSweeper, intervals Intervals) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		refresher: refresher,
		alerts:    alerts,
		jobs:      make(map[string]gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
	}

	if refresher != nil && intervals.Refresh > 0 {
		if err := js.AddJob(JobAnalyticsRefresh, intervals.Refresh, js.refreshTenantAnalytics); err != nil {
			cancel()
			return nil, err
		}
	}
	if alerts != nil && intervals.Alerts > 0 {
		if err := js.AddJob(JobStockAlerts, intervals.Alerts, js.processStockAlerts); err != nil {
			cancel()
			return nil, err
		}
	}

	log.Info().Int("jobs", len(js.jobs)).Msg("registered background jobs")
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running tasks and waits for them to return.
func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) refreshTenantAnalytics() {
	start := time.Now()
	result, err := js.refresher.RefreshAllTenantsAnalytics(js.ctx)
	if err != nil {
		log.Error().Err(err).Msg("tenant analytics refresh failed")
		return
	}
	log.Info().
		Int("processed", result.TenantsProcessed).
		Int("failed", result.TenantsFailed).
		Dur("duration", time.Since(start)).
		Msg("tenant analytics refresh job finished")
}

func (js *JobScheduler) processStockAlerts() {
	result, err := js.alerts.ProcessAllTenantAlerts(js.ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock alert sweep failed")
		return
	}
	log.Info().
		Int("tenants", result.TenantsChecked).
		Int("alerts", result.AlertsPublished).
		Msg("stock alert job finished")
}

// AddJob registers a task that runs every interval. Runs never overlap: a tick that arrives while
// the previous run is still going is rescheduled.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task func()) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}

	js.jobs[name] = job
	log.Debug().Str("job", name).Dur("interval", interval).Msg("added job")
	return nil
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, exists := js.jobs[name]
	js.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return job.RunNow()
}

// GetJobStatus lists the registered jobs sorted by name.
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		status := JobStatus{Name: name}
		if next, err := job.NextRun(); err == nil {
			status.NextRun = next
		}
		if last, err := job.LastRun(); err == nil {
			status.LastRun = last
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
