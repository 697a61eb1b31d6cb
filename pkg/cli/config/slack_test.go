package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
)

func TestSlack_Notifier(t *testing.T) {
	gt.Value(t, (&config.Slack{}).Notifier()).Nil()
	gt.Value(t, (&config.Slack{WebhookURL: "https://hooks.slack.com/services/x"}).Notifier()).NotNil()
}
