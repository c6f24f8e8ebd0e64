package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetStats returns today's counters. Admins get company-wide numbers and
	// finance totals; employees get their own.
	GetStats(ctx context.Context) (StatsResponse, error)
}
