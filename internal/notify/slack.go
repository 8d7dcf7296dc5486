package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// SlackNotifier posts report announcements to a Slack channel. A nil notifier
// is valid and does nothing, so callers never have to guard for disabled
// notifications.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier builds a notifier from configuration. Returns nil when
// Slack notifications are disabled or the bot token is missing.
func NewSlackNotifier() *SlackNotifier {
	if !viper.GetBool("notifications.slack.enabled") {
		return nil
	}

	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken == "" {
		return nil
	}

	return &SlackNotifier{
		client:  slack.New(botToken),
		channel: viper.GetString("notifications.slack.channel"),
	}
}

// Notify posts the message to the configured channel.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s == nil {
		return nil
	}

	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}

// ReportPublished formats the standard "report published" announcement.
func ReportPublished(sprintLabel, pageTitle string, version int, rowCount int) string {
	return fmt.Sprintf("QA report for %s published: %q (version %d, %d rows)",
		sprintLabel, pageTitle, version, rowCount)
}
