package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// FileStore defines the driven port for per-PR file groups and diffs.
// Unknown PR IDs yield empty slices, not errors.
type FileStore interface {
	GroupsForPR(ctx context.Context, prID string) ([]model.FileGroup, error)
	ChangesForPR(ctx context.Context, prID string) ([]model.FileChange, error)
}
