package dashboard

import "context"

// DashboardService summarises one company's day for its admin console.
type DashboardService interface {
	GetDaily(ctx context.Context, req DailyRequest) (DailyResponse, error)
}
