package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// PRStore defines the driven port for read-only pull request fixtures.
type PRStore interface {
	// GetByID returns the PR with the given ID, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.PullRequest, error)
	// ListAll returns every PR in fixture order.
	ListAll(ctx context.Context) ([]model.PullRequest, error)
}
