package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRStore = (*PRRepo)(nil)

// PRRepo is the read-only SQLite implementation of the PRStore port.
type PRRepo struct {
	db *DB
}

// NewPRRepo creates a new PRRepo backed by the given DB.
func NewPRRepo(db *DB) *PRRepo {
	return &PRRepo{db: db}
}

const prColumns = `
	id, number, title, version, description, description_blocks, summary,
	themes, status, author, avatar, timestamp_label, github_url
`

// GetByID returns the PR with the given fixture ID, or driven.ErrNotFound.
func (r *PRRepo) GetByID(ctx context.Context, id string) (*model.PullRequest, error) {
	query := `SELECT ` + prColumns + ` FROM pull_requests WHERE id = ?`

	pr, err := scanPR(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("PR %q: %w", id, driven.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get PR %q: %w", id, err)
	}

	return pr, nil
}

// ListAll returns every PR in fixture order.
func (r *PRRepo) ListAll(ctx context.Context) ([]model.PullRequest, error) {
	query := `SELECT ` + prColumns + ` FROM pull_requests ORDER BY position`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pull requests: %w", err)
	}
	defer rows.Close()

	var prs []model.PullRequest
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		prs = append(prs, *pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pull requests: %w", err)
	}

	return prs, nil
}

func scanPR(s scanner) (*model.PullRequest, error) {
	var pr model.PullRequest
	var blocksJSON, summaryJSON, themesJSON string
	var avatarJSON sql.NullString

	err := s.Scan(
		&pr.ID, &pr.Number, &pr.Title, &pr.Version, &pr.Description, &blocksJSON,
		&summaryJSON, &themesJSON, &pr.Status, &pr.Author, &avatarJSON,
		&pr.Timestamp, &pr.GitHubURL,
	)
	if err != nil {
		return nil, err
	}

	if pr.DescriptionBlocks, err = unmarshalJSON[[]model.DescriptionBlock](blocksJSON, "description_blocks"); err != nil {
		return nil, err
	}
	if pr.Summary, err = unmarshalJSON[[]string](summaryJSON, "summary"); err != nil {
		return nil, err
	}
	if pr.Themes, err = unmarshalJSON[[]model.Theme](themesJSON, "themes"); err != nil {
		return nil, err
	}
	if avatarJSON.Valid {
		avatar, err := unmarshalJSON[model.Avatar](avatarJSON.String, "avatar")
		if err != nil {
			return nil, err
		}
		pr.Avatar = &avatar
	}

	return &pr, nil
}
