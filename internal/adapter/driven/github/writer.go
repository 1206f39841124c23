// Package github implements the SubmissionSink port as a dry run against the
// GitHub pull request review API: payloads are built with go-github and
// logged, never sent.
package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/rs/zerolog"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SubmissionSink = (*DryRunWriter)(nil)

// DryRunWriter logs the review comment and review requests that would be
// posted to owner/repo.
type DryRunWriter struct {
	owner  string
	repo   string
	logger zerolog.Logger
}

// NewDryRunWriter creates a writer for repoFullName ("owner/repo").
func NewDryRunWriter(repoFullName string, logger zerolog.Logger) (*DryRunWriter, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}
	return &DryRunWriter{
		owner:  owner,
		repo:   repo,
		logger: logger.With().Str("component", "github-dry-run").Logger(),
	}, nil
}

// SubmitComment logs the PullRequestComment for an inline comment.
func (w *DryRunWriter) SubmitComment(_ context.Context, c model.CommentSubmission) error {
	number, err := prNumber(c.PRID)
	if err != nil {
		return err
	}

	comment := &gh.PullRequestComment{
		Body: gh.Ptr(c.Body),
		Path: gh.Ptr(c.Path),
		Side: gh.Ptr(c.Side),
	}
	if line, err := strconv.Atoi(c.LineNumber); err == nil {
		comment.Line = gh.Ptr(line)
	}

	w.logger.Info().
		Str("endpoint", fmt.Sprintf("POST /repos/%s/%s/pulls/%d/comments", w.owner, w.repo, number)).
		Str("line_id", c.LineID).
		Interface("payload", comment).
		Msg("comment submitted")
	return nil
}

// SubmitReview logs the PullRequestReviewRequest for a review.
func (w *DryRunWriter) SubmitReview(_ context.Context, r model.ReviewSubmission) error {
	number, err := prNumber(r.PRID)
	if err != nil {
		return err
	}

	event, err := reviewEvent(r.Type)
	if err != nil {
		return err
	}

	req := &gh.PullRequestReviewRequest{Event: gh.Ptr(event)}
	// GitHub rejects an empty body on everything but APPROVE.
	if r.Body != "" || event != "APPROVE" {
		req.Body = gh.Ptr(r.Body)
	}

	w.logger.Info().
		Str("endpoint", fmt.Sprintf("POST /repos/%s/%s/pulls/%d/reviews", w.owner, w.repo, number)).
		Interface("payload", req).
		Msg("review submitted")
	return nil
}

func reviewEvent(t model.ReviewType) (string, error) {
	switch t {
	case model.ReviewComment:
		return "COMMENT", nil
	case model.ReviewRequestChanges:
		return "REQUEST_CHANGES", nil
	case model.ReviewApprove:
		return "APPROVE", nil
	}
	return "", fmt.Errorf("unsupported review type %q", t)
}

// prNumber maps a fixture ID to a PR number. Fixture IDs are the numbers.
func prNumber(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("PR id %q is not a pull request number", id)
	}
	return n, nil
}

func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
