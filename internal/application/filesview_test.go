package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

func TestAnchors(t *testing.T) {
	assert.Equal(t, "group-g1", application.GroupAnchor("g1"))
	assert.Equal(t, "diff-g1-3", application.DiffAnchor("g1", 3))
	assert.Equal(t, "g1-0-2", application.LineID("g1", 0, 2))
}

func TestFilesView_GroupListStartsCollapsed(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	for _, g := range testGroups() {
		assert.False(t, fv.GroupExpanded(g.ID), g.ID)
	}
}

func TestFilesView_ToggleGroupTwiceRestores(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	require.NoError(t, fv.ToggleGroup("g1"))
	assert.True(t, fv.GroupExpanded("g1"))

	require.NoError(t, fv.ToggleGroup("g1"))
	assert.False(t, fv.GroupExpanded("g1"))
}

func TestFilesView_ToggleGroupIsIndependent(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	require.NoError(t, fv.ToggleGroup("g2"))

	assert.False(t, fv.GroupExpanded("g1"))
	assert.True(t, fv.GroupExpanded("g2"))
	assert.False(t, fv.GroupExpanded("core-api"))

	// The content panel keeps its own map.
	assert.True(t, fv.ChangeExpanded("g2"))
}

func TestFilesView_ToggleGroupUnknown(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	err := fv.ToggleGroup("nope")
	assert.ErrorIs(t, err, application.ErrUnknownGroup)
}

func TestFilesView_ChangeExpandedByDefault(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	assert.True(t, fv.ChangeExpanded("g1"))
	// Absent keys count as expanded too.
	assert.True(t, fv.ChangeExpanded("not-a-group"))
}

func TestFilesView_ToggleChangeLeavesFilesAlone(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())
	key, err := fv.KeyAt("g1", 0)
	require.NoError(t, err)
	before := fv.File(key)

	require.NoError(t, fv.ToggleChange("g1"))
	assert.False(t, fv.ChangeExpanded("g1"))
	assert.True(t, fv.ChangeExpanded("g2"))
	assert.Equal(t, before, fv.File(key))

	require.NoError(t, fv.ToggleChange("g1"))
	assert.True(t, fv.ChangeExpanded("g1"))
	assert.False(t, fv.GroupExpanded("g1"), "list map must not follow content map")
}

func TestFilesView_FileStateSeededFromFixtures(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	first, err := fv.KeyAt("g1", 0)
	require.NoError(t, err)
	second, err := fv.KeyAt("g1", 1)
	require.NoError(t, err)

	assert.Equal(t, application.FileState{Expanded: true, Checked: false}, fv.File(first))
	assert.Equal(t, application.FileState{Expanded: true, Checked: true}, fv.File(second))
}

func TestFilesView_CheckingCollapses(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())
	key, err := fv.KeyAt("g1", 0)
	require.NoError(t, err)

	require.NoError(t, fv.ToggleFileChecked("g1", 0))
	assert.Equal(t, application.FileState{Expanded: false, Checked: true}, fv.File(key))
}

func TestFilesView_UncheckingLeavesExpansion(t *testing.T) {
	tests := []struct {
		name           string
		reexpand       bool
		expectExpanded bool
	}{
		{name: "collapsed stays collapsed", reexpand: false, expectExpanded: false},
		{name: "re-expanded stays expanded", reexpand: true, expectExpanded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := application.NewFilesView(testGroups(), testChanges())
			key, err := fv.KeyAt("g1", 0)
			require.NoError(t, err)

			require.NoError(t, fv.ToggleFileChecked("g1", 0))
			if tt.reexpand {
				require.NoError(t, fv.ToggleFileExpanded("g1", 0))
			}
			require.NoError(t, fv.ToggleFileChecked("g1", 0))

			st := fv.File(key)
			assert.False(t, st.Checked)
			assert.Equal(t, tt.expectExpanded, st.Expanded)
		})
	}
}

func TestFilesView_ToggleFileExpandedOnlyFlipsExpanded(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())
	key, err := fv.KeyAt("g1", 1)
	require.NoError(t, err)

	require.NoError(t, fv.ToggleFileExpanded("g1", 1))
	assert.Equal(t, application.FileState{Expanded: false, Checked: true}, fv.File(key))
}

func TestFilesView_OnFileCheckedHook(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	type call struct {
		group string
		index int
	}
	var calls []call
	fv.OnFileChecked = func(groupID string, fileIndex int) {
		calls = append(calls, call{groupID, fileIndex})
	}

	require.NoError(t, fv.ToggleFileChecked("g1", 1))
	require.NoError(t, fv.ToggleFileExpanded("g1", 1))

	assert.Equal(t, []call{{"g1", 1}}, calls)
}

func TestFilesView_UnknownFile(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	assert.ErrorIs(t, fv.ToggleFileChecked("g1", 7), application.ErrUnknownFile)
	assert.ErrorIs(t, fv.ToggleFileExpanded("zz", 0), application.ErrUnknownGroup)
}

func TestFilesView_StateKeyedByFilename(t *testing.T) {
	changes := testChanges()
	changes[0].Files[0], changes[0].Files[1] = changes[0].Files[1], changes[0].Files[0]
	fv := application.NewFilesView(testGroups(), changes)

	// PrClient.java now sits at position 1.
	require.NoError(t, fv.ToggleFileChecked("g1", 1))

	prClient := application.FileKey{GroupID: "g1", Filename: "src/client/PrClient.java"}
	legacy := application.FileKey{GroupID: "g1", Filename: "src/client/LegacyClient.java"}
	assert.Equal(t, application.FileState{Expanded: false, Checked: true}, fv.File(prClient))
	assert.Equal(t, application.FileState{Expanded: true, Checked: true}, fv.File(legacy))
}

func TestFilesView_ReviewedCount(t *testing.T) {
	tests := []struct {
		name   string
		groups []model.FileGroup
		want   int
	}{
		{name: "none", groups: nil, want: 0},
		{name: "one of three", groups: testGroups(), want: 1},
		{
			name: "all",
			groups: []model.FileGroup{
				{ID: "a", Reviewed: true},
				{ID: "b", Reviewed: true},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := application.NewFilesView(tt.groups, nil)
			assert.Equal(t, tt.want, fv.ReviewedCount())
			assert.Equal(t, len(tt.groups), fv.TotalGroups())
		})
	}
}

func TestFilesView_ResolveLine(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	ref, err := fv.ResolveLine("g1-0-2")
	require.NoError(t, err)
	assert.Equal(t, "src/client/PrClient.java", ref.Path)
	assert.Equal(t, "11", ref.Change.LineNumber)
	assert.Equal(t, model.ChangeAdd, ref.Change.Type)

	// Group IDs containing dashes resolve from the right.
	ref, err = fv.ResolveLine("core-api-0-0")
	require.NoError(t, err)
	assert.Equal(t, "core-api", ref.GroupID)
	assert.Equal(t, "src/api/Resolver.java", ref.Path)
}

func TestFilesView_ResolveLineInvalid(t *testing.T) {
	fv := application.NewFilesView(testGroups(), testChanges())

	for _, id := range []string{"", "g1", "g1-0", "g1-x-1", "g1-0-4", "g9-0-0", "g1-2-0"} {
		_, err := fv.ResolveLine(id)
		assert.ErrorIs(t, err, application.ErrUnknownLine, id)
	}
}
