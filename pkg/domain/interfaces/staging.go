package interfaces

import (
	"context"

	"github.com/m-mizutani/lbc-release/pkg/domain/model"
)

// StagingClient defines operations of the package staging REST API
type StagingClient interface {
	// ListProfileRepositories returns every staging repository visible to the account
	ListProfileRepositories(ctx context.Context) (*model.StagingRepositoryList, error)

	// GetRepository returns the current state of a staging repository
	GetRepository(ctx context.Context, repositoryID string) (*model.StagingRepository, error)

	// Finish closes the staged repository
	Finish(ctx context.Context, profile model.StagingProfile, req *model.PromoteRequest) error

	// Promote releases a closed repository
	Promote(ctx context.Context, profile model.StagingProfile, req *model.PromoteRequest) error

	// Drop deletes the staged repository
	Drop(ctx context.Context, profile model.StagingProfile, req *model.PromoteRequest) error
}

// Reporter prints operator-facing progress of a long running command
type Reporter interface {
	Step(format string, args ...any)
	Success(format string, args ...any)
	Failure(format string, args ...any)
}

// Notifier sends a short message to an external channel
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
