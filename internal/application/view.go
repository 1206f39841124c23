package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

const (
	// NoteOpenDelay is how long after mount the author's note slides in.
	NoteOpenDelay = 100 * time.Millisecond
	// NoteCloseDuration is how long the panel stays in the closing phase.
	NoteCloseDuration = 300 * time.Millisecond

	// FilesSection is the anchor scrolled to by "start reviewing".
	FilesSection = "files-view-section"
)

var (
	// ErrEmptyReview is returned when a comment or request-changes review has no body.
	ErrEmptyReview = errors.New("review body is empty")
	// ErrUnknownPR is returned when selecting a PR that is not in the selector.
	ErrUnknownPR = errors.New("unknown pull request")
	// ErrUnmounted is returned for events on a view that has been unmounted.
	ErrUnmounted = errors.New("view unmounted")
)

// NotePhase is the lifecycle of the author's note slide-in panel.
type NotePhase int

const (
	NoteHidden NotePhase = iota
	NoteOpen
	NoteClosing
)

// String returns the phase name used in markup.
func (p NotePhase) String() string {
	switch p {
	case NoteOpen:
		return "open"
	case NoteClosing:
		return "closing"
	default:
		return "hidden"
	}
}

// NoteTab selects the author's note tab.
type NoteTab string

const (
	TabDescription  NoteTab = "context"
	TabConversation NoteTab = "conversation"
)

// PRDetail is the fixture data a view is mounted with.
type PRDetail struct {
	PR      model.PullRequest
	Groups  []model.FileGroup
	Changes []model.FileChange
	Thread  []model.ConversationComment
}

// View is the UI state of one mounted PR detail page. All transitions,
// including timer callbacks, run under mu so they never interleave.
type View struct {
	ID       string
	Detail   PRDetail
	AllPRs   []model.PullRequest
	BasePath string

	mu        sync.Mutex
	clock     Clock
	sink      driven.SubmissionSink
	logger    zerolog.Logger
	unmounted bool
	lastSeen  time.Time

	listeners *Listeners
	files     *FilesView
	composer  *CommentComposer

	reviewOpen bool
	reviewType model.ReviewType
	reviewBody string

	selectorOpen bool

	notePhase NotePhase
	noteTab   NoteTab
	noteTimer Timer
	noteDue   time.Time
}

// ViewOptions carries the collaborators of a View.
type ViewOptions struct {
	ID       string
	BasePath string
	AllPRs   []model.PullRequest
	Clock    Clock
	Sink     driven.SubmissionSink
	Logger   zerolog.Logger
}

// NewView mounts a view: state is created fresh and the author's note is
// scheduled to open after NoteOpenDelay.
func NewView(detail PRDetail, opts ViewOptions) *View {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	v := &View{
		ID:         opts.ID,
		Detail:     detail,
		AllPRs:     opts.AllPRs,
		BasePath:   opts.BasePath,
		clock:      clock,
		sink:       opts.Sink,
		logger:     opts.Logger.With().Str("view", opts.ID).Str("pr", detail.PR.ID).Logger(),
		lastSeen:   clock.Now(),
		listeners:  NewListeners(),
		files:      NewFilesView(detail.Groups, detail.Changes),
		reviewType: model.ReviewComment,
		noteTab:    TabDescription,
	}
	v.composer = NewCommentComposer(v.listeners, v.after)
	v.files.OnFileChecked = func(groupID string, fileIndex int) {
		v.logger.Debug().Str("group", groupID).Int("file_index", fileIndex).Msg("file checked toggled")
	}

	v.mu.Lock()
	v.noteTimer = v.after(NoteOpenDelay, v.openNote)
	v.noteDue = clock.Now().Add(NoteOpenDelay)
	v.mu.Unlock()

	return v
}

// after schedules fn under the view lock. Callbacks firing after unmount are dropped.
func (v *View) after(d time.Duration, fn func()) Timer {
	return v.clock.AfterFunc(d, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.unmounted {
			return
		}
		fn()
	})
}

// Unmount stops all timers and listeners. Later events return ErrUnmounted.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unmounted {
		return
	}
	v.unmounted = true
	v.stopNoteTimer()
	v.composer.Close()
	v.listeners.Clear()
}

// LastSeen returns the time of the last event or mount.
func (v *View) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Apply runs one event to completion.
func (v *View) Apply(ctx context.Context, ev Event) (Outcome, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unmounted {
		return Outcome{}, ErrUnmounted
	}
	v.lastSeen = v.clock.Now()

	switch ev.Kind {
	case EventToggleGroup:
		return Outcome{}, v.files.ToggleGroup(ev.Group)
	case EventToggleChange:
		return Outcome{}, v.files.ToggleChange(ev.Group)
	case EventToggleFile:
		return Outcome{}, v.files.ToggleFileExpanded(ev.Group, ev.File)
	case EventCheckFile:
		return Outcome{}, v.files.ToggleFileChecked(ev.Group, ev.File)

	case EventOpenComment:
		if _, err := v.files.ResolveLine(ev.Line); err != nil {
			return Outcome{}, err
		}
		v.composer.Open(ev.Line)
		return Outcome{}, nil
	case EventDraft:
		v.composer.SetDraft(ev.Text)
		return Outcome{}, nil
	case EventKey:
		if ev.HasText {
			v.composer.SetDraft(ev.Text)
		}
		switch ComposerKeyAction(ev.Key, ev.Ctrl, ev.Meta) {
		case KeySubmit:
			return v.submitComment(ctx)
		case KeyCancel:
			v.composer.Close()
		}
		return Outcome{}, nil
	case EventSubmitComment:
		if ev.HasText {
			v.composer.SetDraft(ev.Text)
		}
		return v.submitComment(ctx)
	case EventCancelComment:
		v.composer.Close()
		return Outcome{}, nil

	case EventPointerDown:
		v.listeners.DispatchPointerDown(ev.Scopes)
		return Outcome{}, nil

	case EventToggleReview:
		v.setReviewOpen(!v.reviewOpen)
		return Outcome{}, nil
	case EventReviewType:
		if !ev.ReviewType.Valid() {
			return Outcome{}, fmt.Errorf("review type %q: %w", ev.ReviewType, ErrUnknownEvent)
		}
		v.reviewType = ev.ReviewType
		return Outcome{}, nil
	case EventReviewBody:
		v.reviewBody = ev.Text
		return Outcome{}, nil
	case EventSubmitReview:
		if ev.HasText {
			v.reviewBody = ev.Text
		}
		return v.submitReview(ctx)
	case EventCancelReview:
		v.setReviewOpen(false)
		return Outcome{}, nil

	case EventToggleSelector:
		v.setSelectorOpen(!v.selectorOpen)
		return Outcome{}, nil
	case EventSelectPR:
		return v.selectPR(ev.PR)

	case EventOpenNote:
		v.stopNoteTimer()
		v.openNote()
		return Outcome{}, nil
	case EventCloseNote:
		v.closeNote()
		return Outcome{}, nil
	case EventNoteTab:
		if ev.Tab != TabDescription && ev.Tab != TabConversation {
			return Outcome{}, fmt.Errorf("note tab %q: %w", ev.Tab, ErrUnknownEvent)
		}
		v.noteTab = ev.Tab
		return Outcome{}, nil
	case EventStartReviewing:
		v.closeNote()
		return Outcome{Scroll: FilesSection}, nil

	case EventFavorite:
		v.logger.Info().Msg("add to favorites")
		return Outcome{}, nil
	}

	return Outcome{}, fmt.Errorf("event %q: %w", ev.Kind, ErrUnknownEvent)
}

func (v *View) submitComment(ctx context.Context) (Outcome, error) {
	err := v.composer.Submit(func(lineID, text string) error {
		ref, err := v.files.ResolveLine(lineID)
		if err != nil {
			return err
		}

		side := "RIGHT"
		if ref.Change.Type == model.ChangeDelete {
			side = "LEFT"
		}

		sub := model.CommentSubmission{
			PRID:       v.Detail.PR.ID,
			LineID:     lineID,
			Path:       ref.Path,
			LineNumber: ref.Change.LineNumber,
			Side:       side,
			Body:       text,
		}
		if err := v.sink.SubmitComment(ctx, sub); err != nil {
			return fmt.Errorf("submit comment on %s: %w", lineID, err)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Submitted: true}, nil
}

func (v *View) submitReview(ctx context.Context) (Outcome, error) {
	body := strings.TrimSpace(v.reviewBody)
	if body == "" && v.reviewType != model.ReviewApprove {
		return Outcome{}, ErrEmptyReview
	}

	sub := model.ReviewSubmission{
		PRID: v.Detail.PR.ID,
		Type: v.reviewType,
		Body: v.reviewBody,
	}
	if err := v.sink.SubmitReview(ctx, sub); err != nil {
		return Outcome{}, fmt.Errorf("submit review: %w", err)
	}

	v.reviewBody = ""
	v.reviewType = model.ReviewComment
	v.setReviewOpen(false)
	return Outcome{Submitted: true}, nil
}

func (v *View) setReviewOpen(open bool) {
	v.reviewOpen = open
	if open {
		v.listeners.Register(ScopeReview, func() { v.setReviewOpen(false) })
		return
	}
	v.listeners.Unregister(ScopeReview)
}

func (v *View) setSelectorOpen(open bool) {
	v.selectorOpen = open
	if open {
		v.listeners.Register(ScopePRSelector, func() { v.setSelectorOpen(false) })
		return
	}
	v.listeners.Unregister(ScopePRSelector)
}

func (v *View) selectPR(id string) (Outcome, error) {
	if id == v.Detail.PR.ID {
		return Outcome{}, nil
	}

	found := false
	for _, pr := range v.AllPRs {
		if pr.ID == id {
			found = true
			break
		}
	}
	if !found {
		return Outcome{}, fmt.Errorf("select %q: %w", id, ErrUnknownPR)
	}

	v.setSelectorOpen(false)
	return Outcome{Navigate: v.BasePath + "/pr/" + id}, nil
}

func (v *View) openNote() {
	v.noteTimer = nil
	v.noteDue = time.Time{}
	v.notePhase = NoteOpen
	v.listeners.Register(ScopeNote, v.closeNote)
}

func (v *View) closeNote() {
	if v.notePhase != NoteOpen {
		return
	}
	v.listeners.Unregister(ScopeNote)
	v.notePhase = NoteClosing
	v.noteDue = v.clock.Now().Add(NoteCloseDuration)
	v.noteTimer = v.after(NoteCloseDuration, func() {
		v.noteTimer = nil
		v.noteDue = time.Time{}
		v.notePhase = NoteHidden
	})
}

func (v *View) stopNoteTimer() {
	if v.noteTimer != nil {
		v.noteTimer.Stop()
		v.noteTimer = nil
	}
	v.noteDue = time.Time{}
}

// ViewState is a consistent copy of a view's state for rendering.
type ViewState struct {
	ID       string
	Detail   PRDetail
	AllPRs   []model.PullRequest
	BasePath string

	Files FilesSnapshot

	CommentLine  string
	CommentDraft string
	CanSubmit    bool

	ReviewOpen bool
	ReviewType model.ReviewType
	ReviewBody string

	SelectorOpen bool

	NotePhase NotePhase
	NoteTab   NoteTab

	// Listening lists the scopes with a registered outside-click handler.
	Listening []Scope
	// Capturing is true when any widget is open and the browser should
	// forward pointer-downs.
	Capturing bool
	// RefreshIn is the delay until a pending timer changes the view, or 0.
	RefreshIn time.Duration
}

// Snapshot returns the current state.
func (v *View) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := ViewState{
		ID:           v.ID,
		Detail:       v.Detail,
		AllPRs:       v.AllPRs,
		BasePath:     v.BasePath,
		Files:        v.files.snapshot(),
		CommentLine:  v.composer.LineID(),
		CommentDraft: v.composer.Draft(),
		CanSubmit:    v.composer.CanSubmit(),
		ReviewOpen:   v.reviewOpen,
		ReviewType:   v.reviewType,
		ReviewBody:   v.reviewBody,
		SelectorOpen: v.selectorOpen,
		NotePhase:    v.notePhase,
		NoteTab:      v.noteTab,
		Listening:    v.listeners.Active(),
	}
	s.Capturing = v.composer.IsOpen() || v.reviewOpen || v.selectorOpen || v.notePhase == NoteOpen

	if !v.noteDue.IsZero() {
		s.RefreshIn = max(v.noteDue.Sub(v.clock.Now()), time.Millisecond)
	}

	return s
}

// InitialState returns the state a freshly mounted view renders with, without
// mounting one. Used by static export.
func InitialState(detail PRDetail, allPRs []model.PullRequest, basePath string) ViewState {
	fv := NewFilesView(detail.Groups, detail.Changes)
	return ViewState{
		Detail:     detail,
		AllPRs:     allPRs,
		BasePath:   basePath,
		Files:      fv.snapshot(),
		ReviewType: model.ReviewComment,
		NotePhase:  NoteHidden,
		NoteTab:    TabDescription,
	}
}
