package web

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_InlineCode(t *testing.T) {
	result := RenderMarkdown("use `fmt.Println`")
	assert.Contains(t, result, "<code>fmt.Println</code>")
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	input := "```go\nfmt.Println(\"hello\")\n```"
	result := RenderMarkdown(input)
	assert.Contains(t, result, "<code")
	assert.Contains(t, result, "fmt.Println")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[click](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "click</a>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	result := RenderMarkdown("~~deleted~~")
	assert.Contains(t, result, "<del>deleted</del>")
}

func TestRenderMarkdown_GFMTaskList(t *testing.T) {
	result := RenderMarkdown("- [x] done\n- [ ] todo")
	assert.Contains(t, result, "<li>")
	assert.Contains(t, result, "done")
	assert.Contains(t, result, "todo")
}

func TestDiffLineClass(t *testing.T) {
	tests := []struct {
		change model.ChangeType
		want   string
	}{
		{model.ChangeAdd, "diff-add"},
		{model.ChangeDelete, "diff-del"},
		{model.ChangeContext, "diff-ctx"},
		{model.ChangeHeader, "diff-header"},
	}
	for _, tt := range tests {
		t.Run(string(tt.change), func(t *testing.T) {
			assert.Equal(t, tt.want, diffLineClass(tt.change))
		})
	}
}

func TestCoverageClass(t *testing.T) {
	assert.Equal(t, "", coverageClass(model.CoverageNone))
	assert.Equal(t, "cov-covered", coverageClass(model.CoverageCovered))
	assert.Equal(t, "cov-partial", coverageClass(model.CoveragePartial))
}
