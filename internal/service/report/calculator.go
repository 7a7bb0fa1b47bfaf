package report

import (
	"math"
	"sort"
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
	"github.com/kintaihub/kintai-backend-go/internal/domain/report"
	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
)

// Calculator turns raw punch sequences into work-hour figures. It is pure and
// stateless apart from the injected display timezone: events are stored in
// UTC and projected into loc only for calendar bucketing.
type Calculator struct {
	loc *time.Location
}

func NewCalculator(loc *time.Location) *Calculator {
	return &Calculator{loc: loc}
}

// UserEvents pairs a user with their event history for batch computations.
type UserEvents struct {
	User   user.User
	Events []attendance.Event
}

// PairedHours converts an event sequence into total worked hours by pairing
// each check-in with the next check-out. A newer check-in replaces an open
// one (the superseded shift is discarded, not retroactively closed), a
// check-out without an open check-in is ignored, and a trailing open check-in
// contributes nothing. Total over any finite input; empty returns 0.
func (c *Calculator) PairedHours(events []attendance.Event) float64 {
	sorted := make([]attendance.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var total time.Duration
	var openAt *time.Time
	for i := range sorted {
		switch sorted[i].Kind {
		case attendance.KindCheckIn:
			ts := sorted[i].Timestamp
			openAt = &ts
		case attendance.KindCheckOut:
			if openAt != nil {
				total += sorted[i].Timestamp.Sub(*openAt)
				openAt = nil
			}
		}
	}

	return total.Hours()
}

// BucketByWeek groups events by the Monday 00:00 (display timezone) on or
// before each event's local date. Two instants on the same UTC day can land
// in different weeks if they straddle local midnight.
func (c *Calculator) BucketByWeek(events []attendance.Event) map[time.Time][]attendance.Event {
	buckets := make(map[time.Time][]attendance.Event)
	for _, e := range events {
		local := e.Timestamp.In(c.loc)
		daysSinceMonday := (int(local.Weekday()) + 6) % 7
		weekStart := time.Date(local.Year(), local.Month(), local.Day()-daysSinceMonday, 0, 0, 0, 0, c.loc)
		buckets[weekStart] = append(buckets[weekStart], e)
	}
	return buckets
}

// BucketByMonth groups events by the first day of their local-timezone month.
func (c *Calculator) BucketByMonth(events []attendance.Event) map[time.Time][]attendance.Event {
	buckets := make(map[time.Time][]attendance.Event)
	for _, e := range events {
		local := e.Timestamp.In(c.loc)
		monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.loc)
		buckets[monthStart] = append(buckets[monthStart], e)
	}
	return buckets
}

// WeeklySamples computes the paired hours of each weekly bucket in week
// order, dropping buckets that pair to zero (dangling punches leave no
// sample, not a zero).
func (c *Calculator) WeeklySamples(events []attendance.Event) []float64 {
	buckets := c.BucketByWeek(events)

	weeks := make([]time.Time, 0, len(buckets))
	for week := range buckets {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	var samples []float64
	for _, week := range weeks {
		if hours := c.PairedHours(buckets[week]); hours > 0 {
			samples = append(samples, hours)
		}
	}
	return samples
}

// UserStatistics summarizes one user's full event history into weekly
// statistics.
func (c *Calculator) UserStatistics(events []attendance.Event) report.Statistics {
	return buildStatistics(c.WeeklySamples(events))
}

// overallWindow bounds the all-users computation; older events are silently
// excluded to cap cost. Per-user statistics deliberately have no such bound.
const overallWindow = 90 * 24 * time.Hour

// OverallStatistics pools weekly samples across all users, restricted to
// events within the trailing 90-day window before now.
func (c *Calculator) OverallStatistics(eventsByUser map[string][]attendance.Event, now time.Time) report.Statistics {
	cutoff := now.Add(-overallWindow)

	userIDs := make([]string, 0, len(eventsByUser))
	for id := range eventsByUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var samples []float64
	for _, id := range userIDs {
		var recent []attendance.Event
		for _, e := range eventsByUser[id] {
			if !e.Timestamp.Before(cutoff) {
				recent = append(recent, e)
			}
		}
		samples = append(samples, c.WeeklySamples(recent)...)
	}
	return buildStatistics(samples)
}

// DistributeRevenue splits monthlyRevenue across users in proportion to
// lifetime paired hours. MonthlyHours covers only events in now's local
// month and is informational; it never affects the allocation weight.
// Users with zero lifetime hours are omitted. A zero hour total across all
// users yields an empty distribution rather than an error.
func (c *Calculator) DistributeRevenue(monthlyRevenue float64, users []UserEvents, now time.Time) report.RevenueDistribution {
	nowLocal := now.In(c.loc)
	monthStart := time.Date(nowLocal.Year(), nowLocal.Month(), 1, 0, 0, 0, 0, c.loc)

	type weighted struct {
		u       user.User
		hours   float64
		monthly float64
	}

	var included []weighted
	var totalHours float64
	for _, ue := range users {
		hours := c.PairedHours(ue.Events)
		if hours <= 0 {
			continue
		}

		included = append(included, weighted{
			u:       ue.User,
			hours:   hours,
			monthly: c.PairedHours(c.BucketByMonth(ue.Events)[monthStart]),
		})
		totalHours += hours
	}

	if totalHours == 0 {
		return report.RevenueDistribution{
			TotalRevenue:   monthlyRevenue,
			TotalWorkHours: 0,
			Distributions:  []report.UserShare{},
		}
	}

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].hours > included[j].hours
	})

	shares := make([]report.UserShare, 0, len(included))
	for _, w := range included {
		shares = append(shares, report.UserShare{
			UserID:          w.u.ID,
			DisplayName:     w.u.DisplayName,
			TotalHours:      round2(w.hours),
			MonthlyHours:    round2(w.monthly),
			WorkRatio:       round2(w.hours / totalHours * 100),
			AllocatedAmount: math.Round(monthlyRevenue * w.hours / totalHours),
		})
	}

	return report.RevenueDistribution{
		TotalRevenue:   monthlyRevenue,
		TotalWorkHours: round2(totalHours),
		Distributions:  shares,
	}
}

// Ranking orders users by descending lifetime paired hours, omitting users
// with no paired time.
func (c *Calculator) Ranking(users []UserEvents) []report.RankingEntry {
	type ranked struct {
		u     user.User
		hours float64
	}

	var entries []ranked
	for _, ue := range users {
		if hours := c.PairedHours(ue.Events); hours > 0 {
			entries = append(entries, ranked{u: ue.User, hours: hours})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].hours > entries[j].hours
	})

	result := make([]report.RankingEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, report.RankingEntry{
			UserID:      e.u.ID,
			DisplayName: e.u.DisplayName,
			TotalHours:  round2(e.hours),
		})
	}
	return result
}

// buildStatistics rounds only here, at the reporting boundary, so partial
// sums do not compound rounding error.
func buildStatistics(samples []float64) report.Statistics {
	stats := report.Statistics{
		WeeklyHours: make([]float64, 0, len(samples)),
		TotalWeeks:  len(samples),
	}

	var sum float64
	for _, s := range samples {
		stats.WeeklyHours = append(stats.WeeklyHours, round2(s))
		sum += s
	}
	stats.TotalHours = round2(sum)
	stats.AverageHours = round2(mean(samples))
	stats.MedianHours = round2(median(samples))
	return stats
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

func median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
