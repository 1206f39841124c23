package application

import (
	"slices"
	"sort"
)

// Scope names the DOM container an outside-click listener is bound to.
// The browser reports, for every pointer-down, the scopes whose container
// holds the event target.
type Scope string

const (
	ScopeComment    Scope = "comment"
	ScopePRSelector Scope = "pr-selector"
	ScopeReview     Scope = "review"
	ScopeNote       Scope = "note"
)

// Listeners is a per-view registry of outside-click handlers. A widget
// registers while it is open and unregisters on close, so handlers never
// accumulate and one widget's handler never sees another widget's state.
type Listeners struct {
	handlers map[Scope]func()
}

// NewListeners creates an empty registry.
func NewListeners() *Listeners {
	return &Listeners{handlers: make(map[Scope]func())}
}

// Register installs onOutside for scope, replacing any previous handler.
func (l *Listeners) Register(scope Scope, onOutside func()) {
	l.handlers[scope] = onOutside
}

// Unregister removes the handler for scope. It is a no-op if none is set.
func (l *Listeners) Unregister(scope Scope) {
	delete(l.handlers, scope)
}

// Registered reports whether scope currently has a handler.
func (l *Listeners) Registered(scope Scope) bool {
	_, ok := l.handlers[scope]
	return ok
}

// Active returns the registered scopes in a stable order.
func (l *Listeners) Active() []Scope {
	out := make([]Scope, 0, len(l.handlers))
	for s := range l.handlers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear drops every handler. Used on unmount.
func (l *Listeners) Clear() {
	clear(l.handlers)
}

// DispatchPointerDown calls the handler of every registered scope that is
// not in inside. Handlers are snapshotted first because they usually
// unregister themselves.
func (l *Listeners) DispatchPointerDown(inside []Scope) int {
	var fire []func()
	for _, scope := range l.Active() {
		if slices.Contains(inside, scope) {
			continue
		}
		fire = append(fire, l.handlers[scope])
	}

	for _, f := range fire {
		f()
	}
	return len(fire)
}
