package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/application"
)

func newTestRegistry(clock *fakeClock) *application.ViewRegistry {
	return application.NewViewRegistry(newTestPRService(), &recordingSink{}, application.RegistryOptions{
		BasePath:      "/v2-public",
		TTL:           30 * time.Minute,
		SweepInterval: time.Minute,
		Clock:         clock,
		Logger:        zerolog.Nop(),
	})
}

func TestViewRegistry_MountAndGet(t *testing.T) {
	reg := newTestRegistry(newFakeClock())

	v, err := reg.Mount(context.Background(), "33")
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "/v2-public", v.BasePath)
	assert.Len(t, v.AllPRs, 3)

	got, err := reg.Get(v.ID)
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.Equal(t, 1, reg.Len())
}

func TestViewRegistry_MountsAreIndependent(t *testing.T) {
	reg := newTestRegistry(newFakeClock())
	ctx := context.Background()

	a, err := reg.Mount(ctx, "33")
	require.NoError(t, err)
	b, err := reg.Mount(ctx, "33")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	_, err = a.Apply(ctx, application.Event{Kind: application.EventToggleGroup, Group: "g1"})
	require.NoError(t, err)

	assert.True(t, a.Snapshot().Files.ListExpanded["g1"])
	assert.False(t, b.Snapshot().Files.ListExpanded["g1"])
}

func TestViewRegistry_UnmountedViewIsGone(t *testing.T) {
	reg := newTestRegistry(newFakeClock())

	v, err := reg.Mount(context.Background(), "34")
	require.NoError(t, err)
	require.NoError(t, reg.Unmount(v.ID))

	_, err = reg.Get(v.ID)
	assert.ErrorIs(t, err, application.ErrViewNotFound)
	assert.ErrorIs(t, reg.Unmount(v.ID), application.ErrViewNotFound)

	_, err = v.Apply(context.Background(), application.Event{Kind: application.EventFavorite})
	assert.ErrorIs(t, err, application.ErrUnmounted)
}

func TestViewRegistry_SweepRemovesIdleViews(t *testing.T) {
	clock := newFakeClock()
	reg := newTestRegistry(clock)
	ctx := context.Background()

	idle, err := reg.Mount(ctx, "33")
	require.NoError(t, err)
	active, err := reg.Mount(ctx, "35")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = active.Apply(ctx, application.Event{Kind: application.EventFavorite})
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())

	_, err = reg.Get(idle.ID)
	assert.ErrorIs(t, err, application.ErrViewNotFound)
	_, err = reg.Get(active.ID)
	assert.NoError(t, err)
}

func TestViewRegistry_StartUnmountsOnCancel(t *testing.T) {
	reg := newTestRegistry(newFakeClock())

	v, err := reg.Mount(context.Background(), "33")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}

	assert.Equal(t, 0, reg.Len())
	_, err = v.Apply(context.Background(), application.Event{Kind: application.EventFavorite})
	assert.ErrorIs(t, err, application.ErrUnmounted)
}
