package background

import (
	"context"
	"log"
	"sync"
	"time"

	"todostock/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

const (
	reportWarmupInterval = 10 * time.Minute
	lowStockInterval     = 30 * time.Minute
	jobTimeout           = 2 * time.Minute
)

// JobScheduler runs the periodic report warmup and low-stock checks
type JobScheduler struct {
	scheduler         gocron.Scheduler
	refreshSvc        *jobs.AnalyticsRefreshService
	alertSvc          *jobs.InventoryAlertService
	lowStockThreshold int
	jobJobs           map[string]gocron.Job
	mu                sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. It does not start them.
func NewJobScheduler(refreshSvc *jobs.AnalyticsRefreshService, alertSvc *jobs.InventoryAlertService, lowStockThreshold int) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:         scheduler,
		refreshSvc:        refreshSvc,
		alertSvc:          alertSvc,
		lowStockThreshold: lowStockThreshold,
		jobJobs:           make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobJobs))
	for name := range js.jobJobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if js.refreshSvc != nil {
		warmupJob, err := js.scheduler.NewJob(
			gocron.DurationJob(reportWarmupInterval),
			gocron.NewTask(js.warmReports),
			gocron.WithName("report-cache-warmup"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return err
		}
		js.jobJobs["report-cache-warmup"] = warmupJob
	}

	if js.alertSvc != nil {
		alertsJob, err := js.scheduler.NewJob(
			gocron.DurationJob(lowStockInterval),
			gocron.NewTask(js.processInventoryAlerts),
			gocron.WithName("low-stock-alerts"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}
		js.jobJobs["low-stock-alerts"] = alertsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
	return nil
}

func (js *JobScheduler) warmReports() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := js.refreshSvc.RefreshReports(ctx); err != nil {
		log.Printf("WARN: report cache warmup failed: %v", err)
	}
}

func (js *JobScheduler) processInventoryAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := js.alertSvc.Run(ctx, js.lowStockThreshold); err != nil {
		log.Printf("WARN: low stock check failed: %v", err)
	}
}
