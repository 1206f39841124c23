package application

import (
	"errors"
	"strings"
	"time"
)

// CommentArmDelay is how long after opening the composer its outside-click
// listener is installed, so the click that opened it cannot close it.
const CommentArmDelay = 100 * time.Millisecond

var (
	// ErrEmptyComment is returned when submitting a blank draft.
	ErrEmptyComment = errors.New("comment is empty")
	// ErrComposerClosed is returned when submitting with no open composer.
	ErrComposerClosed = errors.New("no comment line is active")
)

// scheduleFunc runs fn after d under the owning view's lock.
type scheduleFunc func(d time.Duration, fn func()) Timer

// KeyAction is what a key press inside the composer asks for.
type KeyAction int

const (
	KeyNone KeyAction = iota
	KeySubmit
	KeyCancel
)

// ComposerKeyAction maps a key press to a composer action. Ctrl+Enter and
// Meta+Enter submit, Escape cancels, plain Enter is left to the textarea.
func ComposerKeyAction(key string, ctrl, meta bool) KeyAction {
	switch {
	case key == "Enter" && (ctrl || meta):
		return KeySubmit
	case key == "Escape":
		return KeyCancel
	default:
		return KeyNone
	}
}

// CommentComposer is the inline comment widget of one files view. It is
// either closed or open on exactly one line with a draft.
type CommentComposer struct {
	listeners *Listeners
	schedule  scheduleFunc

	open     bool
	lineID   string
	draft    string
	armTimer Timer
}

// NewCommentComposer creates a closed composer.
func NewCommentComposer(listeners *Listeners, schedule scheduleFunc) *CommentComposer {
	return &CommentComposer{listeners: listeners, schedule: schedule}
}

// Open moves the composer to lineID with an empty draft. Any previously open
// line is closed first and its draft discarded.
func (c *CommentComposer) Open(lineID string) {
	c.Close()

	c.open = true
	c.lineID = lineID
	c.draft = ""

	c.armTimer = c.schedule(CommentArmDelay, func() {
		if !c.open || c.lineID != lineID {
			return
		}
		c.listeners.Register(ScopeComment, c.Close)
	})
}

// Close discards the draft and closes the composer.
func (c *CommentComposer) Close() {
	if c.armTimer != nil {
		c.armTimer.Stop()
		c.armTimer = nil
	}
	c.listeners.Unregister(ScopeComment)

	c.open = false
	c.lineID = ""
	c.draft = ""
}

// SetDraft replaces the draft text. It is ignored while closed.
func (c *CommentComposer) SetDraft(text string) {
	if !c.open {
		return
	}
	c.draft = text
}

// CanSubmit reports whether the draft has non-whitespace content.
func (c *CommentComposer) CanSubmit() bool {
	return c.open && strings.TrimSpace(c.draft) != ""
}

// Submit hands the active line and draft to send, and closes the composer
// only once send succeeds. A blank draft or a failed send leaves the
// composer open with its draft.
func (c *CommentComposer) Submit(send func(lineID, text string) error) error {
	if !c.open {
		return ErrComposerClosed
	}
	if strings.TrimSpace(c.draft) == "" {
		return ErrEmptyComment
	}

	if err := send(c.lineID, c.draft); err != nil {
		return err
	}
	c.Close()
	return nil
}

// IsOpen reports whether a line is active.
func (c *CommentComposer) IsOpen() bool { return c.open }

// LineID returns the active line, or "" when closed.
func (c *CommentComposer) LineID() string { return c.lineID }

// Draft returns the current draft text.
func (c *CommentComposer) Draft() string { return c.draft }
