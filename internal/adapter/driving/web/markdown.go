package web

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// diffLineClass returns the CSS class of a rendered diff row.
func diffLineClass(t model.ChangeType) string {
	switch t {
	case model.ChangeAdd:
		return "diff-add"
	case model.ChangeDelete:
		return "diff-del"
	case model.ChangeHeader:
		return "diff-header"
	default:
		return "diff-ctx"
	}
}

// coverageClass returns the CSS class of a row's coverage marker, or "" when
// the row has no coverage data.
func coverageClass(c model.CoverageClass) string {
	if c == model.CoverageNone {
		return ""
	}
	return "cov-" + string(c)
}
