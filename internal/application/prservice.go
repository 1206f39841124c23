package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// PRService resolves fixture data for pages. It depends only on port interfaces.
type PRService struct {
	prStore   driven.PRStore
	fileStore driven.FileStore
	convStore driven.ConversationStore
}

// NewPRService creates a PRService.
func NewPRService(prStore driven.PRStore, fileStore driven.FileStore, convStore driven.ConversationStore) *PRService {
	return &PRService{
		prStore:   prStore,
		fileStore: fileStore,
		convStore: convStore,
	}
}

// Resolve returns the PR with the given ID, or the placeholder record when
// the ID is unknown. Only store failures are returned as errors.
func (s *PRService) Resolve(ctx context.Context, id string) (model.PullRequest, error) {
	pr, err := s.prStore.GetByID(ctx, id)
	if errors.Is(err, driven.ErrNotFound) {
		return model.PlaceholderPR(id), nil
	}
	if err != nil {
		return model.PullRequest{}, fmt.Errorf("resolve PR %q: %w", id, err)
	}
	return *pr, nil
}

// List returns every PR in fixture order.
func (s *PRService) List(ctx context.Context) ([]model.PullRequest, error) {
	prs, err := s.prStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list PRs: %w", err)
	}
	if prs == nil {
		prs = []model.PullRequest{}
	}
	return prs, nil
}

// Search returns PRs whose "<number> - <title>" fuzzily matches query, best
// match first. A blank query returns the full list.
func (s *PRService) Search(ctx context.Context, query string) ([]model.PullRequest, error) {
	prs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return prs, nil
	}

	names := make([]string, len(prs))
	for i, pr := range prs {
		names[i] = pr.DisplayName()
	}

	matches := fuzzy.Find(query, names)
	out := make([]model.PullRequest, 0, len(matches))
	for _, m := range matches {
		out = append(out, prs[m.Index])
	}
	return out, nil
}

// Detail loads everything a PR detail page renders.
func (s *PRService) Detail(ctx context.Context, id string) (PRDetail, error) {
	pr, err := s.Resolve(ctx, id)
	if err != nil {
		return PRDetail{}, err
	}

	groups, err := s.fileStore.GroupsForPR(ctx, id)
	if err != nil {
		return PRDetail{}, fmt.Errorf("load file groups for %q: %w", id, err)
	}
	changes, err := s.fileStore.ChangesForPR(ctx, id)
	if err != nil {
		return PRDetail{}, fmt.Errorf("load file changes for %q: %w", id, err)
	}
	thread, err := s.convStore.ThreadForPR(ctx, id)
	if err != nil {
		return PRDetail{}, fmt.Errorf("load conversation for %q: %w", id, err)
	}

	if groups == nil {
		groups = []model.FileGroup{}
	}
	if changes == nil {
		changes = []model.FileChange{}
	}
	if thread == nil {
		thread = []model.ConversationComment{}
	}

	return PRDetail{PR: pr, Groups: groups, Changes: changes, Thread: thread}, nil
}
