package report

import (
	"github.com/kintaihub/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// WORK-HOURS STATISTICS
// ========================================

// Statistics summarizes weekly work-hour samples. Samples are pooled weekly
// bucket totals greater than zero; weeks that pair to nothing carry no sample.
type Statistics struct {
	WeeklyHours  []float64 `json:"weekly_hours"`
	AverageHours float64   `json:"average_hours"`
	MedianHours  float64   `json:"median_hours"`
	TotalWeeks   int       `json:"total_weeks"`
	TotalHours   float64   `json:"total_hours"`
}

type UserStatisticsResponse struct {
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	Statistics  Statistics `json:"statistics"`
}

type RankingEntry struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	TotalHours  float64 `json:"total_hours"`
}

// ========================================
// REVENUE DISTRIBUTION
// ========================================

type DistributeRevenueRequest struct {
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

func (r *DistributeRevenueRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MonthlyRevenue <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_revenue",
			Message: "monthly_revenue must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UserShare is one user's slice of the monthly revenue. MonthlyHours is the
// current-month figure shown for context; the allocation weight is the
// lifetime TotalHours.
type UserShare struct {
	UserID          string  `json:"user_id"`
	DisplayName     string  `json:"display_name"`
	TotalHours      float64 `json:"total_hours"`
	MonthlyHours    float64 `json:"monthly_hours"`
	WorkRatio       float64 `json:"work_ratio"`       // percentage, 2 decimals
	AllocatedAmount float64 `json:"allocated_amount"` // whole units
}

type RevenueDistribution struct {
	TotalRevenue   float64     `json:"total_revenue"`
	TotalWorkHours float64     `json:"total_work_hours"`
	Distributions  []UserShare `json:"distributions"`
}
