package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
	"github.com/m-mizutani/lbc-release/pkg/domain/interfaces"
	"github.com/m-mizutani/lbc-release/pkg/infra/nexus"
	"github.com/m-mizutani/lbc-release/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// addRelease makes the release sequence the root action of app
func addRelease(app *cli.Command, reporter interfaces.Reporter) {
	var (
		stagingCfg config.Staging
		slackCfg   config.Slack
	)

	app.Flags = append(app.Flags, stagingCfg.Flags()...)
	app.Flags = append(app.Flags, slackCfg.Flags()...)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		logger := ctxlog.From(ctx)

		if c.NArg() > 0 {
			return goerr.New("unexpected argument", goerr.V("arg", c.Args().First()))
		}
		if err := stagingCfg.ApplyFile(c.IsSet); err != nil {
			return err
		}
		if err := stagingCfg.Validate(); err != nil {
			return err
		}

		logger.Info("Starting release",
			slog.Any("staging", stagingCfg),
			slog.Bool("notify", slackCfg.WebhookURL != ""),
		)

		client, err := nexus.NewClient(stagingCfg.BaseURL, stagingCfg.Username, stagingCfg.Password)
		if err != nil {
			return goerr.Wrap(err, "failed to create staging client")
		}

		opts := []usecase.ReleaseOption{
			usecase.WithDescription(stagingCfg.Description),
			usecase.WithPollInterval(stagingCfg.PollInterval),
			usecase.WithMaxPolls(stagingCfg.MaxPolls),
			usecase.WithWaitTimeout(stagingCfg.WaitTimeout),
		}
		if notifier := slackCfg.Notifier(); notifier != nil {
			opts = append(opts, usecase.WithNotifier(notifier))
		}

		releaseUC := usecase.NewRelease(client, reporter, opts...)
		if _, err := releaseUC.Publish(ctx); err != nil {
			return goerr.Wrap(err, "release failed")
		}

		return nil
	}
}
