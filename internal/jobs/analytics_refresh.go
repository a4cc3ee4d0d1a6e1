package jobs

import (
	"context"
	"log"
	"time"
)

// ReportWarmer recomputes the cached sales reports
type ReportWarmer interface {
	WarmReports(ctx context.Context) error
}

type AnalyticsRefreshService struct {
	reports ReportWarmer
}

type AnalyticsRefreshResult struct {
	DataUpdated   bool
	Duration      time.Duration
	LastRefreshAt time.Time
}

func NewAnalyticsRefreshService(reports ReportWarmer) *AnalyticsRefreshService {
	return &AnalyticsRefreshService{reports: reports}
}

// RefreshReports rebuilds the monthly totals and the sales journal in the cache
func (a *AnalyticsRefreshService) RefreshReports(ctx context.Context) (*AnalyticsRefreshResult, error) {
	start := time.Now()
	result := &AnalyticsRefreshResult{LastRefreshAt: start.UTC()}

	if err := a.reports.WarmReports(ctx); err != nil {
		log.Printf("Failed to refresh sales reports: %v", err)
		return result, err
	}

	result.DataUpdated = true
	result.Duration = time.Since(start)
	log.Printf("Sales reports refreshed in %s", result.Duration)
	return result, nil
}
