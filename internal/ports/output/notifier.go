package output

import (
	"context"

	"langmerge/internal/domain/entities"
)

// Notifier publishes a finished run somewhere outside the output tree.
type Notifier interface {
	Notify(ctx context.Context, summary entities.RunSummary) error
}
