package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

var _ driven.ConversationStore = (*ConversationRepo)(nil)

// ConversationRepo is the read-only SQLite implementation of the
// ConversationStore port.
type ConversationRepo struct {
	db *DB
}

// NewConversationRepo creates a new ConversationRepo backed by the given DB.
func NewConversationRepo(db *DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// ThreadForPR returns the conversation of a PR, oldest first.
func (r *ConversationRepo) ThreadForPR(ctx context.Context, prID string) ([]model.ConversationComment, error) {
	const query = `
		SELECT initials, author, timestamp_label, body
		FROM conversation_comments
		WHERE pr_id = ?
		ORDER BY position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, prID)
	if err != nil {
		return nil, fmt.Errorf("query conversation for PR %q: %w", prID, err)
	}
	defer rows.Close()

	thread := []model.ConversationComment{}
	for rows.Next() {
		var c model.ConversationComment
		if err := rows.Scan(&c.Initials, &c.Author, &c.Timestamp, &c.Body); err != nil {
			return nil, fmt.Errorf("scan conversation comment: %w", err)
		}
		thread = append(thread, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation: %w", err)
	}

	return thread, nil
}
