package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts messages to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	username   string
}

// NewNotifier creates a Notifier. username overrides the webhook's default
// display name when not empty.
func NewNotifier(webhookURL, username string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		username:   username,
	}
}

// Notify posts text to the webhook
func (n *Notifier) Notify(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{
		Username: n.username,
		Text:     text,
	}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook")
	}
	return nil
}
