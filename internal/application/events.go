package application

import (
	"errors"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// ErrUnknownEvent is returned for an event kind the view does not handle.
var ErrUnknownEvent = errors.New("unknown event")

// EventKind names a UI interaction forwarded by the browser.
type EventKind string

const (
	EventToggleGroup    EventKind = "toggle-group"
	EventToggleChange   EventKind = "toggle-change"
	EventToggleFile     EventKind = "toggle-file"
	EventCheckFile      EventKind = "check-file"
	EventOpenComment    EventKind = "open-comment"
	EventDraft          EventKind = "draft"
	EventKey            EventKind = "key"
	EventSubmitComment  EventKind = "submit-comment"
	EventCancelComment  EventKind = "cancel-comment"
	EventPointerDown    EventKind = "pointerdown"
	EventToggleReview   EventKind = "toggle-review"
	EventReviewType     EventKind = "review-type"
	EventReviewBody     EventKind = "review-body"
	EventSubmitReview   EventKind = "submit-review"
	EventCancelReview   EventKind = "cancel-review"
	EventToggleSelector EventKind = "toggle-selector"
	EventSelectPR       EventKind = "select-pr"
	EventOpenNote       EventKind = "open-note"
	EventCloseNote      EventKind = "close-note"
	EventNoteTab        EventKind = "note-tab"
	EventStartReviewing EventKind = "start-reviewing"
	EventFavorite       EventKind = "favorite"
)

// Event is one UI interaction. Only the fields relevant to Kind are read.
type Event struct {
	Kind EventKind

	Group string // toggle-group, toggle-change, toggle-file, check-file
	File  int    // toggle-file, check-file
	Line  string // open-comment

	// Text carries the current textarea content for draft, key,
	// submit-comment, review-body and submit-review. HasText distinguishes
	// an empty textarea from an absent field.
	Text    string
	HasText bool

	Key  string // key
	Ctrl bool
	Meta bool

	Scopes     []Scope          // pointerdown: scopes containing the target
	ReviewType model.ReviewType // review-type
	Tab        NoteTab          // note-tab
	PR         string           // select-pr
}

// Outcome tells the transport what to do besides re-rendering.
type Outcome struct {
	// Navigate is a full-page navigation target, set by select-pr.
	Navigate string
	// Scroll is a DOM anchor to bring into view.
	Scroll string
	// Submitted is true when a comment or review reached the sink.
	Submitted bool
}
