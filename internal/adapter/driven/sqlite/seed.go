package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driven/fixture"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// Seed replaces the stored fixtures with set in a single transaction. File
// documents for PRs that set does not list are skipped.
func Seed(ctx context.Context, db *DB, set *fixture.Set) error {
	tx, err := db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM pull_requests`); err != nil {
		return fmt.Errorf("clear fixtures: %w", err)
	}

	for i, pr := range set.PRs {
		if err := insertPR(ctx, tx, i, pr); err != nil {
			return err
		}

		files := set.Files[pr.ID]
		for j, g := range files.Groups {
			if err := insertGroup(ctx, tx, pr.ID, j, g); err != nil {
				return err
			}
		}
		for j, ch := range files.Changes {
			if err := insertChange(ctx, tx, pr.ID, j, ch); err != nil {
				return err
			}
		}
		for j, c := range set.ThreadFor(pr.ID) {
			if err := insertComment(ctx, tx, pr.ID, j, c); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO seed_runs (pr_count) VALUES (?)`, len(set.PRs)); err != nil {
		return fmt.Errorf("record seed run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// LastSeeded returns when fixtures were last seeded and how many PRs were
// written. ok is false if the database has never been seeded.
func LastSeeded(ctx context.Context, db *DB) (at time.Time, prCount int, ok bool, err error) {
	const query = `SELECT seeded_at, pr_count FROM seed_runs ORDER BY id DESC LIMIT 1`

	var seededAt string
	err = db.Reader.QueryRowContext(ctx, query).Scan(&seededAt, &prCount)
	if err == sql.ErrNoRows {
		return time.Time{}, 0, false, nil
	}
	if err != nil {
		return time.Time{}, 0, false, fmt.Errorf("read last seed run: %w", err)
	}

	at, err = parseTime(seededAt)
	if err != nil {
		return time.Time{}, 0, false, fmt.Errorf("parse seeded_at: %w", err)
	}
	return at, prCount, true, nil
}

func insertPR(ctx context.Context, tx *sql.Tx, position int, pr model.PullRequest) error {
	const query = `
		INSERT INTO pull_requests (
			id, position, number, title, version, description, description_blocks,
			summary, themes, status, author, avatar, timestamp_label, github_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	blocks, err := marshalJSON(nonNil(pr.DescriptionBlocks))
	if err != nil {
		return fmt.Errorf("marshal description blocks of PR %s: %w", pr.ID, err)
	}
	summary, err := marshalJSON(nonNil(pr.Summary))
	if err != nil {
		return fmt.Errorf("marshal summary of PR %s: %w", pr.ID, err)
	}
	themes, err := marshalJSON(nonNil(pr.Themes))
	if err != nil {
		return fmt.Errorf("marshal themes of PR %s: %w", pr.ID, err)
	}

	var avatar sql.NullString
	if pr.Avatar != nil {
		s, err := marshalJSON(pr.Avatar)
		if err != nil {
			return fmt.Errorf("marshal avatar of PR %s: %w", pr.ID, err)
		}
		avatar = sql.NullString{String: s, Valid: true}
	}

	_, err = tx.ExecContext(ctx, query,
		pr.ID, position, pr.Number, pr.Title, pr.Version, pr.Description, blocks,
		summary, themes, pr.Status, pr.Author, avatar, pr.Timestamp, pr.GitHubURL,
	)
	if err != nil {
		return fmt.Errorf("insert PR %s: %w", pr.ID, err)
	}
	return nil
}

func insertGroup(ctx context.Context, tx *sql.Tx, prID string, position int, g model.FileGroup) error {
	const query = `
		INSERT INTO file_groups (pr_id, position, group_id, name, reviewed, files)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	files, err := marshalJSON(nonNil(g.Files))
	if err != nil {
		return fmt.Errorf("marshal files of group %s/%s: %w", prID, g.ID, err)
	}

	if _, err := tx.ExecContext(ctx, query, prID, position, g.ID, g.Name, boolToInt(g.Reviewed), files); err != nil {
		return fmt.Errorf("insert group %s/%s: %w", prID, g.ID, err)
	}
	return nil
}

func insertChange(ctx context.Context, tx *sql.Tx, prID string, position int, ch model.FileChange) error {
	const query = `
		INSERT INTO file_changes (
			pr_id, position, group_id, group_name, file_count, additions, deletions,
			description, review_focus, needs_review, files
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	files, err := marshalJSON(nonNil(ch.Files))
	if err != nil {
		return fmt.Errorf("marshal files of change %s/%s: %w", prID, ch.GroupID, err)
	}

	_, err = tx.ExecContext(ctx, query,
		prID, position, ch.GroupID, ch.GroupName, ch.FileCount, ch.Additions, ch.Deletions,
		ch.Description, ch.ReviewFocus, boolToInt(ch.NeedsReview), files,
	)
	if err != nil {
		return fmt.Errorf("insert change %s/%s: %w", prID, ch.GroupID, err)
	}
	return nil
}

func insertComment(ctx context.Context, tx *sql.Tx, prID string, position int, c model.ConversationComment) error {
	const query = `
		INSERT INTO conversation_comments (pr_id, position, initials, author, timestamp_label, body)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := tx.ExecContext(ctx, query, prID, position, c.Initials, c.Author, c.Timestamp, c.Body); err != nil {
		return fmt.Errorf("insert comment %d of PR %s: %w", position, prID, err)
	}
	return nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
