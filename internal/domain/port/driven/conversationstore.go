package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// ConversationStore defines the driven port for the read-only conversation
// thread shown in the author's note panel.
type ConversationStore interface {
	ThreadForPR(ctx context.Context, prID string) ([]model.ConversationComment, error)
}
