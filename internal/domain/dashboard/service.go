package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetOverview returns today's attendance overview for the caller's company
	GetOverview(ctx context.Context) (OverviewResponse, error)
}
