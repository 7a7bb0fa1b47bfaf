package report

import (
	"context"
	"fmt"
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
	"github.com/kintaihub/kintai-backend-go/internal/domain/report"
	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
)

type ReportServiceImpl struct {
	userRepo  user.UserRepository
	eventRepo attendance.EventRepository
	calc      *Calculator
	now       func() time.Time
}

func NewReportService(userRepo user.UserRepository, eventRepo attendance.EventRepository, loc *time.Location) report.ReportService {
	return &ReportServiceImpl{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		calc:      NewCalculator(loc),
		now:       time.Now,
	}
}

// GetUserStatistics implements report.ReportService.
func (s *ReportServiceImpl) GetUserStatistics(ctx context.Context, userID string) (report.UserStatisticsResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return report.UserStatisticsResponse{}, err
	}

	events, err := s.eventRepo.HistoryByUser(ctx, userID)
	if err != nil {
		return report.UserStatisticsResponse{}, fmt.Errorf("failed to get event history: %w", err)
	}

	return report.UserStatisticsResponse{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Statistics:  s.calc.UserStatistics(events),
	}, nil
}

// GetOverallStatistics implements report.ReportService. The repository fetch
// is already bounded to the trailing window; the calculator applies the same
// cutoff so the bound holds regardless of what the store returns.
func (s *ReportServiceImpl) GetOverallStatistics(ctx context.Context) (report.Statistics, error) {
	now := s.now().UTC()

	events, err := s.eventRepo.HistorySince(ctx, now.Add(-overallWindow))
	if err != nil {
		return report.Statistics{}, fmt.Errorf("failed to get recent events: %w", err)
	}

	byUser := make(map[string][]attendance.Event)
	for _, e := range events {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	return s.calc.OverallStatistics(byUser, now), nil
}

// GetRanking implements report.ReportService.
func (s *ReportServiceImpl) GetRanking(ctx context.Context) ([]report.RankingEntry, error) {
	users, err := s.collectUserEvents(ctx)
	if err != nil {
		return nil, err
	}
	return s.calc.Ranking(users), nil
}

// DistributeRevenue implements report.ReportService.
func (s *ReportServiceImpl) DistributeRevenue(ctx context.Context, req report.DistributeRevenueRequest) (report.RevenueDistribution, error) {
	if err := req.Validate(); err != nil {
		return report.RevenueDistribution{}, err
	}

	users, err := s.collectUserEvents(ctx)
	if err != nil {
		return report.RevenueDistribution{}, err
	}

	return s.calc.DistributeRevenue(req.MonthlyRevenue, users, s.now().UTC()), nil
}

func (s *ReportServiceImpl) collectUserEvents(ctx context.Context) ([]UserEvents, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]UserEvents, 0, len(users))
	for _, u := range users {
		events, err := s.eventRepo.HistoryByUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get event history for user %s: %w", u.ID, err)
		}
		result = append(result, UserEvents{User: u, Events: events})
	}
	return result, nil
}
