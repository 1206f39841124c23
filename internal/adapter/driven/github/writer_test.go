package github

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

type logLine struct {
	Level     string         `json:"level"`
	Component string         `json:"component"`
	Endpoint  string         `json:"endpoint"`
	LineID    string         `json:"line_id"`
	Payload   map[string]any `json:"payload"`
	Message   string         `json:"message"`
}

func newTestWriter(t *testing.T) (*DryRunWriter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewDryRunWriter("SonarSource/asast-scanner-pipeline", zerolog.New(&buf))
	require.NoError(t, err)
	return w, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []logLine {
	t.Helper()
	var lines []logLine
	dec := json.NewDecoder(buf)
	for dec.More() {
		var l logLine
		require.NoError(t, dec.Decode(&l))
		lines = append(lines, l)
	}
	return lines
}

func TestNewDryRunWriter_InvalidRepo(t *testing.T) {
	for _, name := range []string{"", "noslash", "/repo", "owner/"} {
		_, err := NewDryRunWriter(name, zerolog.Nop())
		assert.Error(t, err, name)
	}
}

func TestDryRunWriter_SubmitComment(t *testing.T) {
	w, buf := newTestWriter(t)

	err := w.SubmitComment(context.Background(), model.CommentSubmission{
		PRID:       "33",
		LineID:     "g1-0-2",
		Path:       "src/Foo.java",
		LineNumber: "19",
		Side:       "RIGHT",
		Body:       "LGTM",
	})
	require.NoError(t, err)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	l := lines[0]
	assert.Equal(t, "info", l.Level)
	assert.Equal(t, "github-dry-run", l.Component)
	assert.Equal(t, "comment submitted", l.Message)
	assert.Equal(t, "POST /repos/SonarSource/asast-scanner-pipeline/pulls/33/comments", l.Endpoint)
	assert.Equal(t, "g1-0-2", l.LineID)
	assert.Equal(t, map[string]any{
		"body": "LGTM",
		"path": "src/Foo.java",
		"side": "RIGHT",
		"line": float64(19),
	}, l.Payload)
}

func TestDryRunWriter_SubmitCommentNonNumericLine(t *testing.T) {
	w, buf := newTestWriter(t)

	err := w.SubmitComment(context.Background(), model.CommentSubmission{PRID: "33", LineNumber: "...", Body: "x"})
	require.NoError(t, err)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0].Payload, "line")
}

func TestDryRunWriter_RejectsNonNumericPR(t *testing.T) {
	w, buf := newTestWriter(t)

	err := w.SubmitComment(context.Background(), model.CommentSubmission{PRID: "draft", Body: "x"})
	assert.ErrorContains(t, err, "not a pull request number")
	assert.Zero(t, buf.Len())
}

func TestDryRunWriter_SubmitReview(t *testing.T) {
	tests := []struct {
		name    string
		review  model.ReviewSubmission
		payload map[string]any
	}{
		{
			name:    "comment",
			review:  model.ReviewSubmission{PRID: "34", Type: model.ReviewComment, Body: "A few nits."},
			payload: map[string]any{"event": "COMMENT", "body": "A few nits."},
		},
		{
			name:    "request changes",
			review:  model.ReviewSubmission{PRID: "34", Type: model.ReviewRequestChanges, Body: "Needs tests."},
			payload: map[string]any{"event": "REQUEST_CHANGES", "body": "Needs tests."},
		},
		{
			name:    "approve without body",
			review:  model.ReviewSubmission{PRID: "34", Type: model.ReviewApprove},
			payload: map[string]any{"event": "APPROVE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, buf := newTestWriter(t)

			require.NoError(t, w.SubmitReview(context.Background(), tt.review))

			lines := decodeLines(t, buf)
			require.Len(t, lines, 1)
			assert.Equal(t, "review submitted", lines[0].Message)
			assert.Equal(t, "POST /repos/SonarSource/asast-scanner-pipeline/pulls/34/reviews", lines[0].Endpoint)
			assert.Equal(t, tt.payload, lines[0].Payload)
		})
	}
}

func TestDryRunWriter_RejectsUnknownReviewType(t *testing.T) {
	w, _ := newTestWriter(t)

	err := w.SubmitReview(context.Background(), model.ReviewSubmission{PRID: "34", Type: "merge"})
	assert.ErrorContains(t, err, "unsupported review type")
}
