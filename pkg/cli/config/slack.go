package config

import (
	"github.com/m-mizutani/lbc-release/pkg/domain/interfaces"
	"github.com/m-mizutani/lbc-release/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
	Username   string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook notified of the release outcome",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("LBC_RELEASE_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-username",
			Usage:       "Display name of the Slack notification",
			Value:       "lbc-release",
			Destination: &c.Username,
			Sources:     cli.EnvVars("LBC_RELEASE_SLACK_USERNAME"),
		},
	}
}

// Notifier returns the configured notifier, or nil when no webhook is set
func (c *Slack) Notifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.NewNotifier(c.WebhookURL, c.Username)
}
