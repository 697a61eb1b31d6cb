package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/domain/interfaces"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
	"github.com/m-mizutani/lbc-release/pkg/utils/poll"
)

// releaseConfig holds tunables of the release sequence
type releaseConfig struct {
	description  string
	pollInterval time.Duration
	maxPolls     int
	waitTimeout  time.Duration
	notifier     interfaces.Notifier
}

// ReleaseOption is a functional option for the release use case
type ReleaseOption func(*releaseConfig)

// WithDescription sets the description sent with finish, promote and drop
func WithDescription(description string) ReleaseOption {
	return func(c *releaseConfig) {
		c.description = description
	}
}

// WithPollInterval sets the wait between two repository state checks
func WithPollInterval(d time.Duration) ReleaseOption {
	return func(c *releaseConfig) {
		c.pollInterval = d
	}
}

// WithMaxPolls bounds each state wait to n checks. Zero keeps it unbounded.
func WithMaxPolls(n int) ReleaseOption {
	return func(c *releaseConfig) {
		c.maxPolls = n
	}
}

// WithWaitTimeout bounds each state wait in time. Zero keeps it unbounded.
func WithWaitTimeout(d time.Duration) ReleaseOption {
	return func(c *releaseConfig) {
		c.waitTimeout = d
	}
}

// WithNotifier posts the outcome of the run
func WithNotifier(n interfaces.Notifier) ReleaseOption {
	return func(c *releaseConfig) {
		c.notifier = n
	}
}

type releaseUseCase struct {
	staging  interfaces.StagingClient
	reporter interfaces.Reporter
	cfg      *releaseConfig
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(staging interfaces.StagingClient, reporter interfaces.Reporter, opts ...ReleaseOption) interfaces.ReleaseUseCase {
	cfg := &releaseConfig{
		description:  model.DefaultPromoteDescription,
		pollInterval: poll.DefaultInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &releaseUseCase{
		staging:  staging,
		reporter: reporter,
		cfg:      cfg,
	}
}

// Publish closes, promotes and drops the most recently listed staging
// repository. Any failure aborts the sequence: nothing already applied on
// the remote side is reverted.
func (uc *releaseUseCase) Publish(ctx context.Context) (*model.StagingRepository, error) {
	repo, err := uc.publish(ctx)
	if err != nil {
		uc.notify(ctx, fmt.Sprintf("Release failed: %s", err.Error()))
		return repo, err
	}

	uc.notify(ctx, fmt.Sprintf("Staging repository %s has been released", repo.RepositoryID))
	return repo, nil
}

func (uc *releaseUseCase) publish(ctx context.Context) (*model.StagingRepository, error) {
	logger := ctxlog.From(ctx)

	list, err := uc.staging.ListProfileRepositories(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list staging repositories")
	}

	repo := list.Latest()
	if repo == nil {
		return nil, goerr.New("no staging repository found")
	}
	profile := repo.Profile()

	logger.Info("Selected staging repository",
		"profile_id", profile.ID,
		"repository_id", repo.RepositoryID,
		"listed", len(list.Data),
	)
	uc.reporter.Step("Found profileId = %s, repositoryId = %s", profile.ID, repo.RepositoryID)

	// The same body is sent to finish, promote and drop
	req := model.NewPromoteRequest(repo.RepositoryID, uc.cfg.description)

	uc.reporter.Step("Prepare release for publication")
	if err := uc.staging.Finish(ctx, profile, req); err != nil {
		return repo, goerr.Wrap(err, "failed to close staging repository", goerr.V("repository_id", repo.RepositoryID))
	}

	uc.reporter.Step("Waiting for Sonatype verifications")
	if err := uc.waitState(ctx, repo.RepositoryID, model.RepositoryStateClosed); err != nil {
		return repo, err
	}

	uc.reporter.Step("Publishing release on Maven Central")
	if err := uc.staging.Promote(ctx, profile, req); err != nil {
		return repo, goerr.Wrap(err, "failed to promote staging repository", goerr.V("repository_id", repo.RepositoryID))
	}

	uc.reporter.Step("Waiting for Sonatype release")
	if err := uc.waitState(ctx, repo.RepositoryID, model.RepositoryStateReleased); err != nil {
		return repo, err
	}

	uc.reporter.Step("Dropping repository %s", repo.RepositoryID)
	if err := uc.staging.Drop(ctx, profile, req); err != nil {
		return repo, goerr.Wrap(err, "failed to drop staging repository", goerr.V("repository_id", repo.RepositoryID))
	}

	uc.reporter.Success("Release is published and will be available on Maven Central in a few minutes")
	logger.Info("Release completed", "repository_id", repo.RepositoryID)

	return repo, nil
}

// waitState blocks until the repository reports the target state
func (uc *releaseUseCase) waitState(ctx context.Context, repositoryID string, target model.RepositoryState) error {
	logger := ctxlog.From(ctx)

	attempts, err := poll.Until(ctx, func(ctx context.Context) (bool, error) {
		repo, err := uc.staging.GetRepository(ctx, repositoryID)
		if err != nil {
			return false, err
		}
		logger.Debug("Polled staging repository",
			"repository_id", repositoryID,
			"state", repo.Type,
			"target", target,
		)
		return repo.Type == target, nil
	},
		poll.WithInterval(uc.cfg.pollInterval),
		poll.WithMaxAttempts(uc.cfg.maxPolls),
		poll.WithTimeout(uc.cfg.waitTimeout),
	)
	if err != nil {
		return goerr.Wrap(err, "failed waiting for repository state",
			goerr.V("repository_id", repositoryID),
			goerr.V("target", target),
		)
	}

	logger.Info("Staging repository reached state",
		"repository_id", repositoryID,
		"state", target,
		"polls", attempts,
	)
	return nil
}

func (uc *releaseUseCase) notify(ctx context.Context, text string) {
	if uc.cfg.notifier == nil {
		return
	}
	if err := uc.cfg.notifier.Notify(ctx, text); err != nil {
		ctxlog.From(ctx).Warn("Failed to send notification", "error", err)
	}
}
