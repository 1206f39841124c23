package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

var _ driven.FileStore = (*FileRepo)(nil)

// FileRepo is the read-only SQLite implementation of the FileStore port.
// PRs without groups or changes yield empty slices.
type FileRepo struct {
	db *DB
}

// NewFileRepo creates a new FileRepo backed by the given DB.
func NewFileRepo(db *DB) *FileRepo {
	return &FileRepo{db: db}
}

// GroupsForPR returns the file groups of a PR in fixture order.
func (r *FileRepo) GroupsForPR(ctx context.Context, prID string) ([]model.FileGroup, error) {
	const query = `
		SELECT group_id, name, reviewed, files
		FROM file_groups
		WHERE pr_id = ?
		ORDER BY position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, prID)
	if err != nil {
		return nil, fmt.Errorf("query file groups for PR %q: %w", prID, err)
	}
	defer rows.Close()

	groups := []model.FileGroup{}
	for rows.Next() {
		var g model.FileGroup
		var reviewed int
		var filesJSON string

		if err := rows.Scan(&g.ID, &g.Name, &reviewed, &filesJSON); err != nil {
			return nil, fmt.Errorf("scan file group: %w", err)
		}
		g.Reviewed = reviewed != 0
		if g.Files, err = unmarshalJSON[[]model.FileInfo](filesJSON, "files"); err != nil {
			return nil, fmt.Errorf("file group %s: %w", g.ID, err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file groups: %w", err)
	}

	return groups, nil
}

// ChangesForPR returns the per-group diffs of a PR in fixture order.
func (r *FileRepo) ChangesForPR(ctx context.Context, prID string) ([]model.FileChange, error) {
	const query = `
		SELECT group_id, group_name, file_count, additions, deletions,
		       description, review_focus, needs_review, files
		FROM file_changes
		WHERE pr_id = ?
		ORDER BY position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, prID)
	if err != nil {
		return nil, fmt.Errorf("query file changes for PR %q: %w", prID, err)
	}
	defer rows.Close()

	changes := []model.FileChange{}
	for rows.Next() {
		var ch model.FileChange
		var needsReview int
		var filesJSON string

		err := rows.Scan(
			&ch.GroupID, &ch.GroupName, &ch.FileCount, &ch.Additions, &ch.Deletions,
			&ch.Description, &ch.ReviewFocus, &needsReview, &filesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file change: %w", err)
		}
		ch.NeedsReview = needsReview != 0
		if ch.Files, err = unmarshalJSON[[]model.FileChangeDetail](filesJSON, "files"); err != nil {
			return nil, fmt.Errorf("file change %s: %w", ch.GroupID, err)
		}
		changes = append(changes, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file changes: %w", err)
	}

	return changes, nil
}
