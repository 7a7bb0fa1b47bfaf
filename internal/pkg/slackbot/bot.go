package slackbot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
)

var (
	checkInRegex  = regexp.MustCompile(`(出勤|おはよう)`)
	checkOutRegex = regexp.MustCompile(`(退勤|おつかれ)`)
)

// ClassifyMessage maps a raw Slack message to a punch kind. Check-in keywords
// win when a message matches both. The empty kind means the message is not a
// punch.
func ClassifyMessage(text string) attendance.Kind {
	switch {
	case checkInRegex.MatchString(text):
		return attendance.KindCheckIn
	case checkOutRegex.MatchString(text):
		return attendance.KindCheckOut
	default:
		return ""
	}
}

// Bot listens on Slack Socket Mode and turns keyword messages into attendance
// punches.
type Bot struct {
	api          *slack.Client
	client       *socketmode.Client
	eventService attendance.EventService
	loc          *time.Location
}

func New(api *slack.Client, eventService attendance.EventService, loc *time.Location) *Bot {
	return &Bot{
		api:          api,
		client:       socketmode.New(api),
		eventService: eventService,
		loc:          loc,
	}
}

// Run connects to Slack and blocks until the connection fails or the context
// is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		for evt := range b.client.Events {
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				b.client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				go b.handleEventsAPI(ctx, eventsAPIEvent)
			case socketmode.EventTypeConnected:
				slog.Info("Slack bot connected via Socket Mode")
			}
		}
	}()

	return b.client.RunContext(ctx)
}

func (b *Bot) handleEventsAPI(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	ev, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return
	}
	// Ignore bot echoes and edits.
	if ev.BotID != "" || ev.SubType != "" {
		return
	}

	kind := ClassifyMessage(ev.Text)
	if kind == "" {
		return
	}

	var (
		resp attendance.EventResponse
		err  error
	)
	switch kind {
	case attendance.KindCheckIn:
		resp, err = b.eventService.RecordCheckIn(ctx, ev.User)
	case attendance.KindCheckOut:
		resp, err = b.eventService.RecordCheckOut(ctx, ev.User)
	}
	if err != nil {
		slog.Error("Failed to record punch", "slack_user_id", ev.User, "kind", kind, "error", err)
		b.reply(ev.Channel, "打刻の記録に失敗しました。もう一度お試しください。")
		return
	}

	slog.Info("Recorded punch", "slack_user_id", ev.User, "kind", kind, "timestamp", resp.Timestamp)
	b.reply(ev.Channel, punchReply(kind, resp.LocalTime))
}

func punchReply(kind attendance.Kind, localTime string) string {
	if kind == attendance.KindCheckIn {
		return fmt.Sprintf("出勤打刻を受け付けました！ %s", localTime)
	}
	return fmt.Sprintf("退勤打刻を受け付けました！ %s", localTime)
}

func (b *Bot) reply(channel, text string) {
	if _, _, err := b.api.PostMessage(channel, slack.MsgOptionText(text, false)); err != nil {
		slog.Error("Failed to post Slack reply", "channel", channel, "error", err)
	}
}
