package model

// FileChange is the diff content and metadata for all files of one FileGroup.
// GroupID is a weak reference to FileGroup.ID within the same PR.
type FileChange struct {
	GroupID     string
	GroupName   string
	FileCount   int
	Additions   int
	Deletions   int
	Description string
	ReviewFocus string
	NeedsReview bool
	Files       []FileChangeDetail
}

// FileChangeDetail is the diff of a single file.
type FileChangeDetail struct {
	Filename     string
	Additions    int
	Deletions    int
	Changes      []CodeChange
	Expanded     bool
	Checked      bool
	Coverage     *float64 // Percent.
	Duplications *float64 // Percent.
	Issues       *int
}

// HasMetrics reports whether any of the optional quality metrics are set.
func (d FileChangeDetail) HasMetrics() bool {
	return d.Coverage != nil || d.Duplications != nil || d.Issues != nil
}

// VisibleChanges returns the rows that are rendered, dropping header rows.
func (d FileChangeDetail) VisibleChanges() []CodeChange {
	out := make([]CodeChange, 0, len(d.Changes))
	for _, c := range d.Changes {
		if c.Type == ChangeHeader {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CodeChange is one line of a pre-baked unified diff. LineNumber is a string
// because header rows carry symbolic numbers such as "...".
type CodeChange struct {
	LineNumber string
	Type       ChangeType
	Content    string
	Coverage   CoverageClass
}

// Sign returns the diff sign column for the line.
func (c CodeChange) Sign() string {
	switch c.Type {
	case ChangeAdd:
		return "+"
	case ChangeDelete:
		return "-"
	default:
		return " "
	}
}
