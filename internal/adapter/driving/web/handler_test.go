package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driven/fixture"
	"github.com/ericfisherdev/reviewdeck/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// recordingSink captures submissions instead of logging them.
type recordingSink struct {
	mu       sync.Mutex
	comments []model.CommentSubmission
	reviews  []model.ReviewSubmission
}

func (s *recordingSink) SubmitComment(_ context.Context, c model.CommentSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, c)
	return nil
}

func (s *recordingSink) SubmitReview(_ context.Context, r model.ReviewSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, r)
	return nil
}

type testServer struct {
	mux   *http.ServeMux
	prSvc *application.PRService
	views *application.ViewRegistry
	sink  *recordingSink
}

func newTestServer(t *testing.T, basePath string) *testServer {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = sqlite.RunMigrations(db.Writer)
	require.NoError(t, err)

	set, err := fixture.Load(fixture.Embedded())
	require.NoError(t, err)
	require.NoError(t, sqlite.Seed(context.Background(), db, set))

	prSvc := application.NewPRService(sqlite.NewPRRepo(db), sqlite.NewFileRepo(db), sqlite.NewConversationRepo(db))
	sink := &recordingSink{}
	views := application.NewViewRegistry(prSvc, sink, application.RegistryOptions{
		BasePath:      basePath,
		TTL:           time.Hour,
		SweepInterval: time.Minute,
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = views.Start(ctx)
	})

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(prSvc, views, basePath, zerolog.Nop()))

	return &testServer{mux: mux, prSvc: prSvc, views: views, sink: sink}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

var viewIDPattern = regexp.MustCompile(`data-view-id="([^"]*)"`)

// mountPR loads the detail page and returns the view ID and CSRF cookie.
func (s *testServer) mountPR(t *testing.T, id string) (string, *http.Cookie) {
	t.Helper()

	rec := s.do(httptest.NewRequest(http.MethodGet, "/pr/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	m := viewIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)
	require.NotEmpty(t, m[1])

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "csrf cookie should be set on page load")
	return m[1], cookie
}

func eventRequestFor(viewID string, cookie *http.Cookie, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/views/"+viewID+"/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
		req.Header.Set(csrfHeaderName, cookie.Value)
	}
	return req
}

func (s *testServer) event(viewID string, cookie *http.Cookie, body string) *httptest.ResponseRecorder {
	return s.do(eventRequestFor(viewID, cookie, body))
}

// --- Page tests ---

func TestPRList_RendersAllPRs(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "5 Pull Requests")
	assert.Contains(t, body, "33 - Add GitHub PR review comments API")
	assert.Contains(t, body, `href="/pr/35"`)
	assert.Contains(t, body, `href="/static/app.css"`)
}

func TestPRList_Search(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/?q=mise", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 Pull Requests")
	assert.Contains(t, body, "35 - Pin mise toolchain versions in CI")
	assert.NotContains(t, body, "33 - Add GitHub PR review comments API")
}

func TestPRDetail_KnownPR(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/pr/33", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="view-root"`)
	assert.Contains(t, body, "2/5 reviewed")
	assert.Contains(t, body, `id="group-g1"`)
	assert.Contains(t, body, `data-line-id="g1-0-2"`)
	assert.Contains(t, body, `href="/summary/33"`)
	assert.Contains(t, body, "Quality Gate")
	assert.Equal(t, 1, s.views.Len())
}

var diffRowPattern = regexp.MustCompile(`<tr [^>]*data-line-id="g1-0-2"[^>]*>`)

func TestPRDetail_DiffRowOpensComposer(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/pr/33", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	row := diffRowPattern.FindString(rec.Body.String())
	require.NotEmpty(t, row, "diff row g1-0-2 should be rendered")
	assert.Contains(t, row, `data-event="open-comment"`)
	assert.Contains(t, row, `data-line="g1-0-2"`)
}

func TestPRDetail_UnknownPRShowsPlaceholder(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/pr/999", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "999 - Pull Request")
	assert.Contains(t, body, "No file groups available for this PR")
	assert.Contains(t, body, "No files to display")
	assert.Contains(t, body, `href="https://github.com"`)
}

func TestSummaryIsNotImplemented(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/summary/33", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, "")

	for _, name := range []string{"app.js", "app.css"} {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/static/"+name, nil))
		assert.Equal(t, http.StatusOK, rec.Code, name)
	}
}

// --- View event tests ---

func TestViewEvent_CommentFlow(t *testing.T) {
	s := newTestServer(t, "")
	viewID, cookie := s.mountPR(t, "33")

	rec := s.event(viewID, cookie, `{"kind":"open-comment","line":"g1-0-2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-scope="comment"`)
	assert.Contains(t, rec.Body.String(), `data-capturing="true"`)

	rec = s.event(viewID, cookie, `{"kind":"draft","text":"LG"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.event(viewID, cookie, `{"kind":"key","key":"Enter","ctrl":true,"text":"LGTM"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `data-scope="comment"`)

	require.Len(t, s.sink.comments, 1)
	assert.Equal(t, "LGTM", s.sink.comments[0].Body)
	assert.Equal(t, "g1-0-2", s.sink.comments[0].LineID)
}

func TestViewEvent_EmptyCommentIsUnprocessable(t *testing.T) {
	s := newTestServer(t, "")
	viewID, cookie := s.mountPR(t, "33")

	s.event(viewID, cookie, `{"kind":"open-comment","line":"g1-0-2"}`)
	rec := s.event(viewID, cookie, `{"kind":"submit-comment","text":"   "}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-scope="comment"`, "widget stays open")
	assert.Empty(t, s.sink.comments)
}

func TestViewEvent_SelectPRNavigates(t *testing.T) {
	s := newTestServer(t, "/v2-public")
	viewID, cookie := s.mountPR(t, "33")

	rec := s.event(viewID, cookie, `{"kind":"select-pr","pr":"35"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/v2-public/pr/35", rec.Header().Get(headerNavigate))
}

func TestViewEvent_StartReviewingScrolls(t *testing.T) {
	s := newTestServer(t, "")
	viewID, cookie := s.mountPR(t, "33")

	rec := s.event(viewID, cookie, `{"kind":"start-reviewing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, application.FilesSection, rec.Header().Get(headerScroll))
}

func TestViewEvent_ReviewSubmission(t *testing.T) {
	s := newTestServer(t, "")
	viewID, cookie := s.mountPR(t, "34")

	rec := s.event(viewID, cookie, `{"kind":"toggle-review"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="review-form"`)

	s.event(viewID, cookie, `{"kind":"review-type","review_type":"request-changes"}`)
	rec = s.event(viewID, cookie, `{"kind":"submit-review","text":"Please add tests"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, s.sink.reviews, 1)
	assert.Equal(t, model.ReviewSubmission{PRID: "34", Type: model.ReviewRequestChanges, Body: "Please add tests"}, s.sink.reviews[0])
}

func TestViewEvent_Errors(t *testing.T) {
	s := newTestServer(t, "")
	viewID, cookie := s.mountPR(t, "33")

	tests := []struct {
		name   string
		viewID string
		cookie *http.Cookie
		body   string
		want   int
	}{
		{"missing csrf", viewID, nil, `{"kind":"favorite"}`, http.StatusForbidden},
		{"unknown view", "nope", cookie, `{"kind":"favorite"}`, http.StatusGone},
		{"malformed json", viewID, cookie, `{"kind":`, http.StatusBadRequest},
		{"unknown field", viewID, cookie, `{"kind":"favorite","x":1}`, http.StatusBadRequest},
		{"unknown event", viewID, cookie, `{"kind":"explode"}`, http.StatusBadRequest},
		{"unknown group", viewID, cookie, `{"kind":"toggle-group","group":"zz"}`, http.StatusBadRequest},
		{"unknown line", viewID, cookie, `{"kind":"open-comment","line":"g1-9-9"}`, http.StatusBadRequest},
		{"unknown pr", viewID, cookie, `{"kind":"select-pr","pr":"404"}`, http.StatusBadRequest},
		{"favorite", viewID, cookie, `{"kind":"favorite"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.event(tt.viewID, tt.cookie, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestUnmountView(t *testing.T) {
	s := newTestServer(t, "")
	viewID, cookie := s.mountPR(t, "33")

	req := httptest.NewRequest(http.MethodDelete, "/views/"+viewID, nil)
	req.AddCookie(cookie)
	req.Header.Set(csrfHeaderName, cookie.Value)
	rec := s.do(req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.views.Len())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/views/"+viewID, nil))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Body.String(), "reload the page")
}

func TestViewFragment(t *testing.T) {
	s := newTestServer(t, "")
	viewID, _ := s.mountPR(t, "35")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/views/"+viewID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<div id="view-root"`))
	assert.NotContains(t, body, "<!doctype html>")
}

// --- Export ---

func TestExport(t *testing.T) {
	s := newTestServer(t, "/v2-public")
	out := t.TempDir()

	pages, err := Export(context.Background(), s.prSvc, "/v2-public", out)
	require.NoError(t, err)
	assert.Equal(t, 6, pages)

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="/v2-public/pr/33"`)

	detail, err := os.ReadFile(filepath.Join(out, "pr", "33", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(detail), `data-view-id=""`)
	assert.Contains(t, string(detail), `src="/v2-public/static/app.js"`)

	f, err := os.Open(filepath.Join(out, "static", "app.js"))
	require.NoError(t, err)
	defer f.Close()
	js, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.NotEmpty(t, js)

	// A second export over the same directory succeeds.
	_, err = Export(context.Background(), s.prSvc, "/v2-public", out)
	require.NoError(t, err)
}
