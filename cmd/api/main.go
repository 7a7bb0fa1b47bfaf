package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/slack-go/slack"

	"github.com/kintaihub/kintai-backend-go/internal/config"
	appHTTP "github.com/kintaihub/kintai-backend-go/internal/handler/http"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/cron"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/oauth"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/slackbot"
	"github.com/kintaihub/kintai-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kintaihub/kintai-backend-go/internal/service/attendance"
	authService "github.com/kintaihub/kintai-backend-go/internal/service/auth"
	reportService "github.com/kintaihub/kintai-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewEventRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	slackOAuth := oauth.NewSlackService(
		cfg.Slack.ClientID,
		cfg.Slack.ClientSecret,
		cfg.Slack.RedirectURL,
		[]string{"identity.basic", "identity.email"},
	)

	api := slack.New(cfg.Slack.BotToken, slack.OptionAppLevelToken(cfg.Slack.AppToken))

	eventSvc := attendanceService.NewEventService(db, eventRepo, userRepo, slackbot.NewProfileFetcher(api), loc)
	authSvc := authService.NewAuthService(userRepo, cfg.Slack.AdminUserID)
	reportSvc := reportService.NewReportService(userRepo, eventRepo, loc)

	bot := slackbot.New(api, eventSvc, loc)
	go func() {
		if err := bot.Run(context.Background()); err != nil {
			slog.Error("Slack bot stopped", "error", err)
			os.Exit(1)
		}
	}()

	scheduler := cron.NewSummaryScheduler(api, reportSvc, cfg.Slack.SummaryChannelID, cfg.Slack.SummarySchedule, loc)
	if err := scheduler.Start(); err != nil {
		fmt.Println("Error starting summary scheduler:", err)
		return
	}
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc, slackOAuth, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(eventSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.FrontendURL,
		cfg.App.Env,
		authHandler,
		attendanceHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
