package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/reviewdeck/internal/application"
)

func TestListeners_DispatchSkipsContainingScopes(t *testing.T) {
	l := application.NewListeners()
	var closed []application.Scope
	for _, s := range []application.Scope{application.ScopeReview, application.ScopePRSelector} {
		scope := s
		l.Register(scope, func() {
			closed = append(closed, scope)
			l.Unregister(scope)
		})
	}

	n := l.DispatchPointerDown([]application.Scope{application.ScopePRSelector})

	assert.Equal(t, 1, n)
	assert.Equal(t, []application.Scope{application.ScopeReview}, closed)
	assert.True(t, l.Registered(application.ScopePRSelector))
	assert.False(t, l.Registered(application.ScopeReview))
}

func TestListeners_UnregisterIsIdempotent(t *testing.T) {
	l := application.NewListeners()
	l.Unregister(application.ScopeComment)

	l.Register(application.ScopeComment, func() {})
	l.Unregister(application.ScopeComment)
	l.Unregister(application.ScopeComment)

	assert.Empty(t, l.Active())
	assert.Equal(t, 0, l.DispatchPointerDown(nil))
}

func TestListeners_ActiveIsSorted(t *testing.T) {
	l := application.NewListeners()
	l.Register(application.ScopeReview, func() {})
	l.Register(application.ScopeComment, func() {})
	l.Register(application.ScopeNote, func() {})

	assert.Equal(t, []application.Scope{
		application.ScopeComment,
		application.ScopeNote,
		application.ScopeReview,
	}, l.Active())

	l.Clear()
	assert.Empty(t, l.Active())
}
