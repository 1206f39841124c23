package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/reviewdeck/internal/adapter/driving/http"
	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockPRStore struct {
	prs []model.PullRequest
	err error
}

func (m *mockPRStore) GetByID(_ context.Context, id string) (*model.PullRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.prs {
		if m.prs[i].ID == id {
			return &m.prs[i], nil
		}
	}
	return nil, driven.ErrNotFound
}

func (m *mockPRStore) ListAll(_ context.Context) ([]model.PullRequest, error) {
	return m.prs, m.err
}

type mockFileStore struct{}

func (mockFileStore) GroupsForPR(_ context.Context, prID string) ([]model.FileGroup, error) {
	if prID != "33" {
		return nil, nil
	}
	return []model.FileGroup{
		{ID: "g1", Name: "DTOs", Reviewed: true, Files: []model.FileInfo{{Path: "a/Dto.java"}}},
		{ID: "g2", Name: "Client", Files: []model.FileInfo{{Path: "a/Old.java", Deleted: true}}},
	}, nil
}

func (mockFileStore) ChangesForPR(_ context.Context, prID string) ([]model.FileChange, error) {
	if prID != "33" {
		return nil, nil
	}
	cov := 87.5
	return []model.FileChange{{
		GroupID:   "g1",
		GroupName: "DTOs",
		FileCount: 1,
		Files: []model.FileChangeDetail{{
			Filename: "a/Dto.java",
			Coverage: &cov,
			Changes: []model.CodeChange{
				{LineNumber: "...", Type: model.ChangeHeader, Content: "@@ -1 +1 @@"},
				{LineNumber: "1", Type: model.ChangeAdd, Content: "record Dto() {}", Coverage: model.CoverageCovered},
			},
		}},
	}}, nil
}

type mockConversationStore struct{}

func (mockConversationStore) ThreadForPR(_ context.Context, _ string) ([]model.ConversationComment, error) {
	return nil, nil
}

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func testPRs() []model.PullRequest {
	return []model.PullRequest{
		{ID: "33", Number: 33, Title: "Add GitHub PR review comments API", Status: "open", Author: "api-integration-team",
			Avatar: &model.Avatar{Type: model.AvatarLetter, Letter: "T"}},
		{ID: "34", Number: 34, Title: "Refactor controller with resolver pattern", Status: "open", Author: "sravikumar",
			GitHubURL: "https://github.com/SonarSource/asast-scanner-pipeline/pull/34"},
	}
}

func newTestServer(t *testing.T, prStore driven.PRStore, probe httphandler.Probe) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	svc := application.NewPRService(prStore, mockFileStore{}, mockConversationStore{})
	h := httphandler.NewHandler(svc, fixedCounter(2), probe, logger)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)
	return httphandler.ApplyMiddleware(mux, logger), &logs
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListPRs(t *testing.T) {
	srv, _ := newTestServer(t, &mockPRStore{prs: testPRs()}, nil)

	rec := get(t, srv, "/api/v1/prs")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp []httphandler.PRResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "T", resp[0].Avatar)
	assert.Equal(t, "https://github.com", resp[0].URL)
	assert.Equal(t, "A", resp[1].Avatar)
	assert.Equal(t, "https://github.com/SonarSource/asast-scanner-pipeline/pull/34", resp[1].URL)
}

func TestListPRs_Search(t *testing.T) {
	srv, _ := newTestServer(t, &mockPRStore{prs: testPRs()}, nil)

	rec := get(t, srv, "/api/v1/prs?q=resolver")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []httphandler.PRResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "34", resp[0].ID)
}

func TestListPRs_StoreError(t *testing.T) {
	srv, logs := newTestServer(t, &mockPRStore{err: errors.New("db gone")}, nil)

	rec := get(t, srv, "/api/v1/prs")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "db gone")
}

func TestGetPR_Known(t *testing.T) {
	srv, _ := newTestServer(t, &mockPRStore{prs: testPRs()}, nil)

	rec := get(t, srv, "/api/v1/prs/33")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.PRDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Add GitHub PR review comments API", resp.Title)
	assert.False(t, resp.Placeholder)
	assert.Equal(t, 1, resp.ReviewedGroups)
	require.Len(t, resp.Groups, 2)
	assert.True(t, resp.Groups[1].Files[0].Deleted)

	require.Len(t, resp.Changes, 1)
	lines := resp.Changes[0].Files[0].Lines
	require.Len(t, lines, 1, "header rows are not exposed")
	assert.Equal(t, httphandler.LineResponse{
		ID: "g1-0-0", Number: "1", Type: "add", Content: "record Dto() {}", Coverage: "covered",
	}, lines[0])
	require.NotNil(t, resp.Changes[0].Files[0].Coverage)
	assert.InDelta(t, 87.5, *resp.Changes[0].Files[0].Coverage, 0.001)
	assert.NotNil(t, resp.Conversation)
}

func TestGetPR_UnknownReturnsPlaceholder(t *testing.T) {
	srv, _ := newTestServer(t, &mockPRStore{prs: testPRs()}, nil)

	rec := get(t, srv, "/api/v1/prs/999")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.PRDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Placeholder)
	assert.Equal(t, 999, resp.Number)
	assert.Equal(t, "Pull Request", resp.Title)
	assert.Equal(t, "unknown", resp.Status)
	assert.Equal(t, "unknown", resp.Author)
	assert.Equal(t, "unknown", resp.Version)
	assert.Empty(t, resp.Groups)
	assert.Empty(t, resp.Changes)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &mockPRStore{}, func(context.Context) error { return nil })

	rec := get(t, srv, "/api/v1/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.MountedViews)
	assert.NotEmpty(t, resp.Time)
}

func TestHealth_ProbeFailure(t *testing.T) {
	srv, _ := newTestServer(t, &mockPRStore{}, func(context.Context) error { return errors.New("database is locked") })

	rec := get(t, srv, "/api/v1/health")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "database is locked", resp.Error)
}

func TestMiddleware_RecoversAndLogs(t *testing.T) {
	var logs bytes.Buffer
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := httphandler.ApplyMiddleware(panicky, zerolog.New(&logs))

	rec := get(t, h, "/anything")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), `"message":"panic recovered"`)
	assert.Contains(t, logs.String(), `"status":500`)
}

func TestMountAt(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})

	t.Run("empty base path is identity", func(t *testing.T) {
		rec := get(t, httphandler.MountAt("", inner), "/pr/33")
		assert.Equal(t, "/pr/33", rec.Body.String())
	})

	t.Run("prefix is stripped", func(t *testing.T) {
		rec := get(t, httphandler.MountAt("/v2-public", inner), "/v2-public/pr/33")
		assert.Equal(t, "/pr/33", rec.Body.String())
	})

	t.Run("outside base path is 404", func(t *testing.T) {
		rec := get(t, httphandler.MountAt("/v2-public", inner), "/pr/33")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bare base path redirects", func(t *testing.T) {
		rec := get(t, httphandler.MountAt("/v2-public", inner), "/v2-public")
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/v2-public/", rec.Header().Get("Location"))
	})
}
