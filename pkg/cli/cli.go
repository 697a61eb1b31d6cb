package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
	"github.com/m-mizutani/lbc-release/pkg/domain/types"
	"github.com/m-mizutani/lbc-release/pkg/infra/console"
	"github.com/urfave/cli/v3"
)

type runConfig struct {
	stdout io.Writer
	stderr io.Writer
	color  *bool
}

// Option is a functional option for Run
type Option func(*runConfig)

// WithStdout redirects progress output and logs meant for stdout
func WithStdout(w io.Writer) Option {
	return func(c *runConfig) {
		c.stdout = w
	}
}

// WithStderr redirects logs and error messages
func WithStderr(w io.Writer) Option {
	return func(c *runConfig) {
		c.stderr = w
	}
}

// WithColor forces colored progress output on or off
func WithColor(enabled bool) Option {
	return func(c *runConfig) {
		c.color = &enabled
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	rc := &runConfig{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(rc)
	}

	reporterOpts := []console.Option{
		console.WithWriter(rc.stdout),
		console.WithErrorWriter(rc.stderr),
	}
	if rc.color != nil {
		reporterOpts = append(reporterOpts, console.WithColor(*rc.color))
	}
	reporter := console.NewReporter(reporterOpts...)

	var (
		loggerCfg = config.Logger{Output: rc.stderr}
		sentryCfg config.Sentry
		logger    *slog.Logger
		flush     = func() {}
	)

	app := &cli.Command{
		Name:      "lbc-release",
		Usage:     "Publish the latest staging repository to Maven Central",
		Version:   types.Version,
		Writer:    rc.stdout,
		ErrWriter: rc.stderr,
		Flags:     append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			logger = logger.With("run_id", uuid.NewString())
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			sentryFlush, err := sentryCfg.Configure()
			if err != nil {
				return nil, err
			}
			flush = sentryFlush
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdMigrate(reporter),
		},
	}
	addRelease(app, reporter)

	err := app.Run(ctx, args)
	defer flush()

	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		reporter.Failure("Error: %s", err.Error())

		if sentryCfg.Enabled() {
			sentry.CaptureException(err)
		}
		return err
	}

	return nil
}
