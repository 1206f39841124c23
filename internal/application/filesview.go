package application

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

var (
	// ErrUnknownGroup is returned for a group ID not present in the view.
	ErrUnknownGroup = errors.New("unknown file group")
	// ErrUnknownFile is returned for a file position outside its group.
	ErrUnknownFile = errors.New("unknown file")
	// ErrUnknownLine is returned for a line ID that does not address a rendered row.
	ErrUnknownLine = errors.New("unknown diff line")
)

// GroupAnchor returns the DOM anchor of a file change card.
func GroupAnchor(groupID string) string {
	return "group-" + groupID
}

// DiffAnchor returns the DOM anchor of one file diff inside a card.
func DiffAnchor(groupID string, fileIndex int) string {
	return fmt.Sprintf("diff-%s-%d", groupID, fileIndex)
}

// LineID returns the comment line ID of a rendered (non-header) row.
func LineID(groupID string, fileIndex, row int) string {
	return fmt.Sprintf("%s-%d-%d", groupID, fileIndex, row)
}

// FileKey identifies a file diff by its group and filename, so per-file
// state survives reordering of the fixture list.
type FileKey struct {
	GroupID  string
	Filename string
}

// FileState is the per-file UI state of a File Diff Panel.
type FileState struct {
	Expanded bool
	Checked  bool
}

// LineRef is a resolved comment line.
type LineRef struct {
	LineID    string
	GroupID   string
	FileIndex int
	Row       int
	Path      string
	Change    model.CodeChange
}

// FilesView holds the expand/collapse and reviewed bookkeeping for the group
// list and the diff content of one PR. The list and the content keep
// separate expansion maps keyed by the same group ID.
type FilesView struct {
	groups  []model.FileGroup
	changes []model.FileChange

	listExpanded    map[string]bool
	contentExpanded map[string]bool
	files           map[FileKey]*FileState

	// OnFileChecked, when set, is called after a file's checked flag flips.
	OnFileChecked func(groupID string, fileIndex int)
}

// NewFilesView seeds per-file state from the fixtures: every file starts
// expanded and checked as the fixture says.
func NewFilesView(groups []model.FileGroup, changes []model.FileChange) *FilesView {
	fv := &FilesView{
		groups:          groups,
		changes:         changes,
		listExpanded:    make(map[string]bool),
		contentExpanded: make(map[string]bool),
		files:           make(map[FileKey]*FileState),
	}

	for _, ch := range changes {
		for _, f := range ch.Files {
			fv.files[FileKey{GroupID: ch.GroupID, Filename: f.Filename}] = &FileState{
				Expanded: true,
				Checked:  f.Checked,
			}
		}
	}

	return fv
}

// Groups returns the file groups in fixture order.
func (fv *FilesView) Groups() []model.FileGroup { return fv.groups }

// Changes returns the file changes in fixture order.
func (fv *FilesView) Changes() []model.FileChange { return fv.changes }

// ReviewedCount returns the number of groups flagged reviewed.
func (fv *FilesView) ReviewedCount() int { return model.CountReviewed(fv.groups) }

// TotalGroups returns the number of groups.
func (fv *FilesView) TotalGroups() int { return len(fv.groups) }

// GroupExpanded reports whether the group list shows the group's files.
// Groups start collapsed.
func (fv *FilesView) GroupExpanded(groupID string) bool {
	return fv.listExpanded[groupID]
}

// ToggleGroup flips the group list expansion of one group.
func (fv *FilesView) ToggleGroup(groupID string) error {
	if !fv.hasGroup(groupID) {
		return fmt.Errorf("toggle group %q: %w", groupID, ErrUnknownGroup)
	}
	fv.listExpanded[groupID] = !fv.listExpanded[groupID]
	return nil
}

// ChangeExpanded reports whether a file change card shows its diffs. Cards
// are expanded unless explicitly collapsed.
func (fv *FilesView) ChangeExpanded(groupID string) bool {
	expanded, ok := fv.contentExpanded[groupID]
	return !ok || expanded
}

// ToggleChange flips one card's expansion. Per-file state is untouched.
func (fv *FilesView) ToggleChange(groupID string) error {
	if _, ok := fv.change(groupID); !ok {
		return fmt.Errorf("toggle change %q: %w", groupID, ErrUnknownGroup)
	}
	fv.contentExpanded[groupID] = !fv.ChangeExpanded(groupID)
	return nil
}

// KeyAt resolves a positional file reference to its stable key.
func (fv *FilesView) KeyAt(groupID string, fileIndex int) (FileKey, error) {
	ch, ok := fv.change(groupID)
	if !ok {
		return FileKey{}, fmt.Errorf("file %s[%d]: %w", groupID, fileIndex, ErrUnknownGroup)
	}
	if fileIndex < 0 || fileIndex >= len(ch.Files) {
		return FileKey{}, fmt.Errorf("file %s[%d]: %w", groupID, fileIndex, ErrUnknownFile)
	}
	return FileKey{GroupID: groupID, Filename: ch.Files[fileIndex].Filename}, nil
}

// File returns the state of one file. Unknown keys report the zero state.
func (fv *FilesView) File(key FileKey) FileState {
	if st, ok := fv.files[key]; ok {
		return *st
	}
	return FileState{}
}

// ToggleFileExpanded flips only the expanded flag of the file at fileIndex.
func (fv *FilesView) ToggleFileExpanded(groupID string, fileIndex int) error {
	key, err := fv.KeyAt(groupID, fileIndex)
	if err != nil {
		return err
	}
	st := fv.files[key]
	st.Expanded = !st.Expanded
	return nil
}

// ToggleFileChecked flips the checked flag of the file at fileIndex.
// Checking a file collapses its diff; unchecking leaves expansion alone.
func (fv *FilesView) ToggleFileChecked(groupID string, fileIndex int) error {
	key, err := fv.KeyAt(groupID, fileIndex)
	if err != nil {
		return err
	}

	st := fv.files[key]
	wasChecked := st.Checked
	st.Checked = !st.Checked
	if !wasChecked {
		st.Expanded = false
	}

	if fv.OnFileChecked != nil {
		fv.OnFileChecked(groupID, fileIndex)
	}
	return nil
}

// ResolveLine maps a line ID "<groupId>-<fileIndex>-<row>" back to the row
// it addresses. Group IDs may themselves contain dashes, so the two numeric
// parts are taken from the right.
func (fv *FilesView) ResolveLine(lineID string) (LineRef, error) {
	rowSep := strings.LastIndexByte(lineID, '-')
	if rowSep <= 0 {
		return LineRef{}, fmt.Errorf("line %q: %w", lineID, ErrUnknownLine)
	}
	fileSep := strings.LastIndexByte(lineID[:rowSep], '-')
	if fileSep <= 0 {
		return LineRef{}, fmt.Errorf("line %q: %w", lineID, ErrUnknownLine)
	}

	groupID := lineID[:fileSep]
	fileIndex, err := strconv.Atoi(lineID[fileSep+1 : rowSep])
	if err != nil {
		return LineRef{}, fmt.Errorf("line %q: %w", lineID, ErrUnknownLine)
	}
	row, err := strconv.Atoi(lineID[rowSep+1:])
	if err != nil {
		return LineRef{}, fmt.Errorf("line %q: %w", lineID, ErrUnknownLine)
	}

	ch, ok := fv.change(groupID)
	if !ok || fileIndex < 0 || fileIndex >= len(ch.Files) {
		return LineRef{}, fmt.Errorf("line %q: %w", lineID, ErrUnknownLine)
	}
	file := ch.Files[fileIndex]
	rows := file.VisibleChanges()
	if row < 0 || row >= len(rows) {
		return LineRef{}, fmt.Errorf("line %q: %w", lineID, ErrUnknownLine)
	}

	return LineRef{
		LineID:    lineID,
		GroupID:   groupID,
		FileIndex: fileIndex,
		Row:       row,
		Path:      file.Filename,
		Change:    rows[row],
	}, nil
}

// snapshot copies the mutable state for rendering outside the view lock.
func (fv *FilesView) snapshot() FilesSnapshot {
	s := FilesSnapshot{
		Groups:          fv.groups,
		Changes:         fv.changes,
		ReviewedCount:   fv.ReviewedCount(),
		ListExpanded:    make(map[string]bool, len(fv.groups)),
		ContentExpanded: make(map[string]bool, len(fv.changes)),
		Files:           make(map[FileKey]FileState, len(fv.files)),
	}
	for _, g := range fv.groups {
		s.ListExpanded[g.ID] = fv.GroupExpanded(g.ID)
	}
	for _, ch := range fv.changes {
		s.ContentExpanded[ch.GroupID] = fv.ChangeExpanded(ch.GroupID)
	}
	for k, st := range fv.files {
		s.Files[k] = *st
	}
	return s
}

func (fv *FilesView) hasGroup(groupID string) bool {
	for _, g := range fv.groups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

func (fv *FilesView) change(groupID string) (model.FileChange, bool) {
	for _, ch := range fv.changes {
		if ch.GroupID == groupID {
			return ch, true
		}
	}
	return model.FileChange{}, false
}

// FilesSnapshot is an immutable copy of FilesView state.
type FilesSnapshot struct {
	Groups          []model.FileGroup
	Changes         []model.FileChange
	ReviewedCount   int
	ListExpanded    map[string]bool
	ContentExpanded map[string]bool
	Files           map[FileKey]FileState
}
