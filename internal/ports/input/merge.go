package input

import (
	"context"

	"langmerge/internal/domain/entities"
)

type MergeUseCase interface {
	Run(ctx context.Context) (entities.RunSummary, error)
	MergeFile(ctx context.Context, relPath string) (*entities.MergeResult, error)
}
