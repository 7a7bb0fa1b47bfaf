package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"github.com/kintaihub/kintai-backend-go/internal/domain/report"
)

// SummaryScheduler posts a periodic work-hours summary to a Slack channel.
type SummaryScheduler struct {
	cron          *cron.Cron
	api           *slack.Client
	reportService report.ReportService
	channelID     string
	schedule      string
}

func NewSummaryScheduler(api *slack.Client, reportService report.ReportService, channelID, schedule string, loc *time.Location) *SummaryScheduler {
	return &SummaryScheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		api:           api,
		reportService: reportService,
		channelID:     channelID,
		schedule:      schedule,
	}
}

// Start registers the summary job and begins the scheduler. It is a no-op
// when no channel is configured.
func (s *SummaryScheduler) Start() error {
	if s.channelID == "" {
		slog.Info("Summary channel not configured, scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.postSummary); err != nil {
		return fmt.Errorf("failed to register summary job: %w", err)
	}

	s.cron.Start()
	slog.Info("Summary scheduler started", "schedule", s.schedule, "channel", s.channelID)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *SummaryScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SummaryScheduler) postSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.reportService.GetOverallStatistics(ctx)
	if err != nil {
		slog.Error("Failed to compute summary statistics", "error", err)
		return
	}

	msg := formatSummary(stats)
	if _, _, err := s.api.PostMessage(s.channelID, slack.MsgOptionText(msg, false)); err != nil {
		slog.Error("Failed to post summary", "channel", s.channelID, "error", err)
		return
	}

	slog.Info("Posted work-hours summary", "channel", s.channelID, "total_weeks", stats.TotalWeeks)
}

func formatSummary(stats report.Statistics) string {
	if stats.TotalWeeks == 0 {
		return "直近90日間の勤怠記録はありません。"
	}

	return fmt.Sprintf(
		"*直近90日間の勤怠サマリー*\n"+
			"合計労働時間: %.2f 時間\n"+
			"週平均: %.2f 時間\n"+
			"週中央値: %.2f 時間\n"+
			"集計週数: %d 週",
		stats.TotalHours, stats.AverageHours, stats.MedianHours, stats.TotalWeeks,
	)
}
