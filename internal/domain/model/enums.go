package model

// ChangeType classifies a diff line.
type ChangeType string

const (
	ChangeAdd     ChangeType = "add"
	ChangeDelete  ChangeType = "delete"
	ChangeContext ChangeType = "context"
	ChangeHeader  ChangeType = "header"
)

// Valid reports whether t is a known change type.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeAdd, ChangeDelete, ChangeContext, ChangeHeader:
		return true
	}
	return false
}

// CoverageClass is the optional test coverage classification of a line.
type CoverageClass string

const (
	CoverageNone      CoverageClass = ""
	CoverageCovered   CoverageClass = "covered"
	CoverageUncovered CoverageClass = "uncovered"
	CoveragePartial   CoverageClass = "partial"
)

// ReviewType is the verdict chosen in the review submission dropdown.
type ReviewType string

const (
	ReviewComment        ReviewType = "comment"
	ReviewRequestChanges ReviewType = "request-changes"
	ReviewApprove        ReviewType = "approve"
)

// Valid reports whether t is a known review type.
func (t ReviewType) Valid() bool {
	switch t {
	case ReviewComment, ReviewRequestChanges, ReviewApprove:
		return true
	}
	return false
}

// AvatarType distinguishes image avatars from letter avatars.
type AvatarType string

const (
	AvatarImage  AvatarType = "image"
	AvatarLetter AvatarType = "letter"
)

// BlockType distinguishes description paragraphs from images.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockImage     BlockType = "image"
)
