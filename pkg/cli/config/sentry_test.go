package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
)

func TestSentry_Configure_Disabled(t *testing.T) {
	c := &config.Sentry{}
	flush, err := c.Configure()
	gt.NoError(t, err)
	gt.False(t, c.Enabled())
	flush()
}
