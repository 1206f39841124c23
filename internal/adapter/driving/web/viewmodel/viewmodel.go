// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PRRowViewModel holds presentation-ready data for one PR in the list page
// and in the PR selector dropdown.
type PRRowViewModel struct {
	ID           string
	Number       int
	Title        string
	DisplayName  string // "<number> - <title>"
	Author       string
	Status       string
	Timestamp    string
	Version      string
	AvatarLetter string
	AvatarSrc    string // Empty when the PR has a letter avatar.
	DetailPath   string
	Current      bool // Selected in the PR selector.
}

// PRListViewModel holds the PR list page.
type PRListViewModel struct {
	BasePath   string
	Query      string
	CountLabel string // "5 Pull Requests"
	Rows       []PRRowViewModel
}

// PRDetailViewModel holds presentation-ready data for the PR detail page.
type PRDetailViewModel struct {
	PR PRRowViewModel

	// ViewID is empty for statically exported pages, which carry no live view.
	ViewID      string
	BasePath    string
	EventsURL   string
	ExternalURL string
	SummaryPath string
	HomePath    string
	Placeholder bool

	SelectorOpen bool
	Selector     []PRRowViewModel

	Review ReviewViewModel
	Groups GroupsViewModel

	Changes []ChangeViewModel
	Note    NoteViewModel

	// Capturing asks the browser to forward pointer-downs.
	Capturing bool
	// RefreshInMillis asks the browser to re-fetch the view after a delay.
	RefreshInMillis int64
}

// ReviewViewModel holds the review submission dropdown.
type ReviewViewModel struct {
	Open    bool
	Body    string
	Options []ReviewOptionViewModel
}

// ReviewOptionViewModel is one radio option of the review dropdown.
type ReviewOptionViewModel struct {
	Value       string
	Label       string
	Description string
	Selected    bool
}

// GroupsViewModel holds the file group panel.
type GroupsViewModel struct {
	ReviewedLabel string // "1/3 reviewed"
	Items         []GroupViewModel
}

// GroupViewModel holds one file group.
type GroupViewModel struct {
	ID       string
	Anchor   string
	Name     string
	Reviewed bool
	Expanded bool
	Files    []GroupFileViewModel
}

// GroupFileViewModel is a file link in the group panel.
type GroupFileViewModel struct {
	Path       string
	Deleted    bool
	DiffAnchor string
}

// ChangeViewModel holds one group's diff section.
type ChangeViewModel struct {
	GroupID     string
	Anchor      string
	GroupName   string
	FileCount   int
	Additions   int
	Deletions   int
	Description string
	ReviewFocus string
	NeedsReview bool
	Expanded    bool
	Files       []FileDiffViewModel
}

// FileDiffViewModel holds one file's diff.
type FileDiffViewModel struct {
	Index        int
	Anchor       string
	Filename     string
	ShortName    string // "…<basename>"
	Additions    int
	Deletions    int
	Expanded     bool
	Checked      bool
	Coverage     string // "87.5%", empty when absent.
	Duplications string
	Issues       string
	Lines        []LineViewModel
}

// HasMetrics reports whether any quality badge is shown.
func (f FileDiffViewModel) HasMetrics() bool {
	return f.Coverage != "" || f.Duplications != "" || f.Issues != ""
}

// LineViewModel holds one diff row and, when it is the active comment line,
// the inline comment widget state.
type LineViewModel struct {
	ID            string
	Number        string
	Class         string // diff-add, diff-del or diff-ctx
	Sign          string
	Content       string
	CoverageClass string // Empty when the row has no coverage data.

	Commenting bool
	Draft      string
	CanSubmit  bool
}

// NoteViewModel holds the author's note panel.
type NoteViewModel struct {
	Phase  string // hidden, open or closing
	Tab    string
	Author string
	Blocks []BlockViewModel
	// Summary is shown only when there are no Blocks.
	Summary []string
	// Description is the fallback text when both Blocks and Summary are empty.
	Description string
	Themes      []ThemeViewModel
	Thread      []CommentViewModel
}

// BlockViewModel is one description block. Paragraph text is shown
// literally, line breaks included.
type BlockViewModel struct {
	IsImage bool
	Text    string
	Src     string
	Alt     string
}

// ThemeViewModel is one review theme.
type ThemeViewModel struct {
	Name        string
	Description string
}

// CommentViewModel is one comment of the conversation tab.
type CommentViewModel struct {
	Initials  string
	Author    string
	Timestamp string
	BodyHTML  string
}
