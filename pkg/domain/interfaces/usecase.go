package interfaces

import (
	"context"

	"github.com/m-mizutani/lbc-release/pkg/domain/model"
)

// ReleaseUseCase promotes the latest staging repository to the public repository
type ReleaseUseCase interface {
	// Publish runs close → wait closed → promote → wait released → drop
	Publish(ctx context.Context) (*model.StagingRepository, error)
}

// MigrationUseCase rewrites source files under a directory
type MigrationUseCase interface {
	// Migrate applies the rule to every matching file under root
	Migrate(ctx context.Context, root string) (*model.MigrationResult, error)
}
