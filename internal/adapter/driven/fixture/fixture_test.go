package fixture

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

func TestLoad_Embedded(t *testing.T) {
	set, err := Load(Embedded())
	require.NoError(t, err)

	require.Len(t, set.PRs, 5)
	assert.Equal(t, "31", set.PRs[0].ID)
	assert.Equal(t, "Add GitHub PR review comments API", set.PRs[2].Title)

	files, ok := set.Files["33"]
	require.True(t, ok)
	assert.Len(t, files.Groups, 5)
	assert.Len(t, files.Changes, 5)
	assert.Equal(t, "g1", files.Changes[0].GroupID)
	assert.Equal(t, 2, files.Changes[0].FileCount)

	_, ok = set.Files["31"]
	assert.False(t, ok)

	assert.Empty(t, set.Validate())
}

func TestLoad_EmbeddedDiffRows(t *testing.T) {
	set, err := Load(Embedded())
	require.NoError(t, err)

	first := set.Files["33"].Changes[0].Files[0]
	assert.True(t, first.Expanded)
	assert.False(t, first.Checked)
	require.NotNil(t, first.Coverage)
	assert.InDelta(t, 100.0, *first.Coverage, 0.001)
	assert.Equal(t, model.ChangeHeader, first.Changes[0].Type)

	visible := first.VisibleChanges()
	require.GreaterOrEqual(t, len(visible), 3)
	assert.Equal(t, "3", visible[2].LineNumber)
	assert.Equal(t, model.ChangeAdd, visible[2].Type)

	assert.True(t, set.Files["33"].Changes[0].Files[1].Checked)
}

func TestSet_ThreadFor(t *testing.T) {
	set, err := Load(Embedded())
	require.NoError(t, err)

	def := set.ThreadFor("33")
	require.Len(t, def, 4)
	assert.Equal(t, "api-integration-team", def[0].Author)

	own := set.ThreadFor("35")
	require.Len(t, own, 2)
	assert.Equal(t, "jmartinez", own[0].Author)

	assert.Equal(t, def, set.ThreadFor("31"))
}

const minimalIndex = `
prs:
  - id: "1"
    number: 1
    title: One
`

func TestLoad_RejectsUnknownChangeType(t *testing.T) {
	fsys := fstest.MapFS{
		"prs.yaml": {Data: []byte(minimalIndex)},
		"pr-1.yaml": {Data: []byte(`
groups:
  - id: a
    name: A
changes:
  - group_id: a
    files:
      - filename: x.go
        lines:
          - {line: "1", type: modify, content: "x"}
`)},
	}

	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pr-1.yaml")
	assert.Contains(t, err.Error(), `change type "modify"`)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	fsys := fstest.MapFS{
		"prs.yaml": {Data: []byte(`
prs:
  - id: "1"
    titel: typo
`)},
	}

	_, err := Load(fsys)
	assert.ErrorContains(t, err, "decode fixture prs.yaml")
}

func TestLoad_MissingIndex(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.ErrorContains(t, err, "open fixture prs.yaml")
}

func TestLoad_RejectsBadAvatar(t *testing.T) {
	fsys := fstest.MapFS{
		"prs.yaml": {Data: []byte(`
prs:
  - id: "1"
    avatar: {type: emoji}
`)},
	}

	_, err := Load(fsys)
	assert.ErrorContains(t, err, `avatar type "emoji"`)
}

func TestSet_Validate(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want []string
	}{
		{
			name: "clean",
			set: Set{
				PRs: []model.PullRequest{{ID: "1"}},
				Files: map[string]PRFiles{"1": {
					Groups:  []model.FileGroup{{ID: "a"}},
					Changes: []model.FileChange{{GroupID: "a"}},
				}},
			},
		},
		{
			name: "dangling change group",
			set: Set{
				PRs: []model.PullRequest{{ID: "1"}},
				Files: map[string]PRFiles{"1": {
					Groups:  []model.FileGroup{{ID: "a"}},
					Changes: []model.FileChange{{GroupID: "b"}},
				}},
			},
			want: []string{"PR 1, group b: change has no matching file group"},
		},
		{
			name: "duplicate group",
			set: Set{
				PRs: []model.PullRequest{{ID: "1"}},
				Files: map[string]PRFiles{"1": {
					Groups: []model.FileGroup{{ID: "a"}, {ID: "a"}},
				}},
			},
			want: []string{"PR 1, group a: duplicate file group id"},
		},
		{
			name: "unlisted PR",
			set: Set{
				Files: map[string]PRFiles{"9": {}},
			},
			want: []string{"PR 9: file document for unlisted PR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range tt.set.Validate() {
				got = append(got, p.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
