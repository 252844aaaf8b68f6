package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns headcount, payroll and current-month payment statistics
	GetDashboard(ctx context.Context) (DashboardResponse, error)
}
