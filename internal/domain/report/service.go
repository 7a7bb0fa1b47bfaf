package report

import (
	"context"
)

// ReportService computes work-hour statistics and revenue distributions from
// stored attendance events. All results are derived on demand; nothing here
// writes.
type ReportService interface {
	// GetUserStatistics computes weekly statistics over one user's full
	// event history.
	GetUserStatistics(ctx context.Context, userID string) (UserStatisticsResponse, error)

	// GetOverallStatistics computes pooled weekly statistics over all users,
	// bounded to a trailing 90-day window.
	GetOverallStatistics(ctx context.Context) (Statistics, error)

	// GetRanking lists users by descending lifetime paired hours. Users with
	// zero lifetime hours are omitted.
	GetRanking(ctx context.Context) ([]RankingEntry, error)

	// DistributeRevenue splits a monthly revenue figure across users in
	// proportion to lifetime paired hours.
	DistributeRevenue(ctx context.Context, req DistributeRevenueRequest) (RevenueDistribution, error)
}
