package components

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/reviewdeck/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func detail() vm.PRDetailViewModel {
	return vm.PRDetailViewModel{
		PR: vm.PRRowViewModel{
			ID:           "33",
			Number:       33,
			Title:        "Add review comments",
			DisplayName:  "33 - Add review comments",
			Author:       "octo",
			Status:       "open",
			Version:      "abc123",
			AvatarLetter: "O",
		},
		ViewID:      "v1",
		ExternalURL: "https://github.com/acme/repo/pull/33",
		SummaryPath: "/summary/33",
		HomePath:    "/",
	}
}

func TestPRDetail_SanitizesExternalURL(t *testing.T) {
	d := detail()
	d.ExternalURL = "javascript:alert(1)"

	html := render(t, PRDetail(d))

	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `href="`+string(templ.FailedSanitizationURL)+`"`)
}

func TestPRDetail_ConditionalClasses(t *testing.T) {
	d := detail()
	html := render(t, PRDetail(d))
	assert.Contains(t, html, `class="pr-selector"`)

	d.SelectorOpen = true
	d.Selector = []vm.PRRowViewModel{d.PR, {ID: "35", DisplayName: "35 - Other"}}
	d.Selector[0].Current = true
	html = render(t, PRDetail(d))
	assert.Contains(t, html, `class="pr-selector open"`)
	assert.Contains(t, html, `class="pr-option current"`)
	assert.Contains(t, html, `class="pr-option" data-event="select-pr" data-pr="35"`)
}

func TestAuthorNote_ParagraphsAreLiteral(t *testing.T) {
	n := vm.NoteViewModel{
		Phase: "open",
		Tab:   tabContext,
		Blocks: []vm.BlockViewModel{
			{Text: "Run `make lint` and <b>check</b>.\nThen ship."},
		},
	}

	html := render(t, AuthorNote(n))

	assert.Contains(t, html, `<p class="note-paragraph pre-line">`)
	assert.Contains(t, html, "Run `make lint` and &lt;b&gt;check&lt;/b&gt;.\nThen ship.")
	assert.NotContains(t, html, "<code>")
	assert.NotContains(t, html, "<b>")
}

func TestAuthorNote_ImageSrcIsSanitized(t *testing.T) {
	n := vm.NoteViewModel{
		Phase: "open",
		Tab:   tabContext,
		Blocks: []vm.BlockViewModel{
			{IsImage: true, Src: "javascript:alert(1)", Alt: "x"},
			{IsImage: true, Src: "/v2-public/img/flow.png", Alt: "flow"},
		},
	}

	html := render(t, AuthorNote(n))

	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `src="/v2-public/img/flow.png"`)
}

func TestAuthorNote_HiddenRendersNothing(t *testing.T) {
	assert.Empty(t, render(t, AuthorNote(vm.NoteViewModel{Phase: "hidden"})))
	assert.Empty(t, render(t, AuthorNote(vm.NoteViewModel{})))
}

func TestDiffLine_RowOpensComposer(t *testing.T) {
	l := vm.LineViewModel{ID: "g1-0-2", Number: "12", Class: "diff-add", Sign: "+", Content: "x := 1"}

	html := render(t, diffLine(l))

	assert.True(t, strings.HasPrefix(html,
		`<tr class="diff-add" data-line-id="g1-0-2" data-event="open-comment" data-line="g1-0-2">`), html)
	assert.Contains(t, html, `<button type="button" title="Add a comment" data-event="open-comment" data-line="g1-0-2">+</button>`)
	assert.NotContains(t, html, "comment-row")
}

func TestDiffLine_CommentingShowsComposer(t *testing.T) {
	l := vm.LineViewModel{ID: "g1-0-2", Class: "diff-ctx", CoverageClass: "cov-covered", Commenting: true, Draft: "hmm"}

	html := render(t, diffLine(l))

	assert.Contains(t, html, `<tr class="diff-ctx commenting"`)
	assert.Contains(t, html, `<td class="line-number cov-covered">`)
	assert.Contains(t, html, `data-scope="comment"`)
	assert.Contains(t, html, ">hmm</textarea>")
	assert.Contains(t, html, `data-event="submit-comment" disabled>`)
}
