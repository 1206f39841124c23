package application_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// --- Fake clock ---

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *fakeClock
	at    time.Time
	f     func()
	done  bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) application.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves time forward and fires every due timer in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.done && !t.at.After(c.now) {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// --- Recording sink ---

type recordingSink struct {
	mu       sync.Mutex
	comments []model.CommentSubmission
	reviews  []model.ReviewSubmission
	err      error
}

func (s *recordingSink) SubmitComment(_ context.Context, c model.CommentSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.comments = append(s.comments, c)
	return nil
}

func (s *recordingSink) SubmitReview(_ context.Context, r model.ReviewSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reviews = append(s.reviews, r)
	return nil
}

// --- Fixtures ---

func floatPtr(v float64) *float64 { return &v }

func testGroups() []model.FileGroup {
	return []model.FileGroup{
		{
			ID:   "g1",
			Name: "API client",
			Files: []model.FileInfo{
				{Path: "src/client/PrClient.java"},
				{Path: "src/client/LegacyClient.java", Deleted: true},
			},
			Reviewed: true,
		},
		{
			ID:    "g2",
			Name:  "Tests",
			Files: []model.FileInfo{{Path: "src/test/PrClientTest.java"}},
		},
		{
			ID:    "core-api",
			Name:  "Core API",
			Files: []model.FileInfo{{Path: "src/api/Resolver.java"}},
		},
	}
}

func testChanges() []model.FileChange {
	return []model.FileChange{
		{
			GroupID:     "g1",
			GroupName:   "API client",
			FileCount:   2,
			Additions:   4,
			Deletions:   1,
			NeedsReview: true,
			Files: []model.FileChangeDetail{
				{
					Filename:  "src/client/PrClient.java",
					Additions: 3,
					Deletions: 1,
					Coverage:  floatPtr(87.5),
					Changes: []model.CodeChange{
						{LineNumber: "...", Type: model.ChangeHeader, Content: "@@ -10,4 +10,6 @@"},
						{LineNumber: "10", Type: model.ChangeContext, Content: "class PrClient {"},
						{LineNumber: "11", Type: model.ChangeDelete, Content: "  int retries = 1;"},
						{LineNumber: "11", Type: model.ChangeAdd, Content: "  int retries = 3;", Coverage: model.CoverageCovered},
						{LineNumber: "12", Type: model.ChangeAdd, Content: "  Duration backoff;"},
					},
				},
				{
					Filename:  "src/client/LegacyClient.java",
					Deletions: 1,
					Checked:   true,
					Changes: []model.CodeChange{
						{LineNumber: "1", Type: model.ChangeDelete, Content: "class LegacyClient {}"},
					},
				},
			},
		},
		{
			GroupID:   "g2",
			GroupName: "Tests",
			FileCount: 1,
			Additions: 1,
			Files: []model.FileChangeDetail{
				{
					Filename:  "src/test/PrClientTest.java",
					Additions: 1,
					Changes: []model.CodeChange{
						{LineNumber: "5", Type: model.ChangeAdd, Content: "@Test void retries() {}"},
					},
				},
			},
		},
		{
			GroupID:   "core-api",
			GroupName: "Core API",
			FileCount: 1,
			Files: []model.FileChangeDetail{
				{
					Filename: "src/api/Resolver.java",
					Changes: []model.CodeChange{
						{LineNumber: "1", Type: model.ChangeContext, Content: "interface Resolver {}"},
					},
				},
			},
		},
	}
}

func testPRs() []model.PullRequest {
	return []model.PullRequest{
		{ID: "33", Number: 33, Title: "Add GitHub PR review comments API", Status: "open", Author: "api-integration-team"},
		{ID: "34", Number: 34, Title: "Refactor controller with resolver pattern", Status: "open", Author: "sravikumar"},
		{ID: "35", Number: 35, Title: "Fix mise toolchain pinning", Status: "open", Author: "felix"},
	}
}

func testDetail() application.PRDetail {
	return application.PRDetail{
		PR:      testPRs()[0],
		Groups:  testGroups(),
		Changes: testChanges(),
	}
}
