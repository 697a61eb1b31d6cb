package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
	"github.com/m-mizutani/lbc-release/pkg/domain/interfaces"
	"github.com/m-mizutani/lbc-release/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdMigrate(reporter interfaces.Reporter) *cli.Command {
	var migrationCfg config.Migration

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Add the useActivity parameter to presenter reducers (presenter 1.8.0)",
		Flags:   migrationCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			rule, err := migrationCfg.Rule()
			if err != nil {
				return err
			}

			migrationUC, err := usecase.NewMigration(rule, reporter, migrationCfg.DryRun)
			if err != nil {
				return goerr.Wrap(err, "failed to prepare migration")
			}

			logger.Info("Starting migration",
				"dir", migrationCfg.Dir,
				"rule", rule.Name,
				"dry_run", migrationCfg.DryRun,
			)

			result, err := migrationUC.Migrate(ctx, migrationCfg.Dir)
			if err != nil {
				return err
			}

			if result.DryRun {
				for _, path := range result.Updated {
					reporter.Step("Would update %s", path)
				}
			}
			return nil
		},
	}
}
