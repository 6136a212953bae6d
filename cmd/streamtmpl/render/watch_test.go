package render

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatchLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	files := map[string]struct{}{"/work/title.tmpl": {}}

	var renders atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, files, 20*time.Millisecond, func() error {
			renders.Add(1)
			return nil
		})
	}()

	// a burst of writes renders once
	events <- fsnotify.Event{Name: "/work/title.tmpl", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/work/./title.tmpl", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/work/title.tmpl", Op: fsnotify.Chmod}
	require.Eventually(t, func() bool { return renders.Load() == 1 }, time.Second, 5*time.Millisecond)

	// other files and watcher errors are ignored
	events <- fsnotify.Event{Name: "/work/other.tmpl", Op: fsnotify.Write}
	errs <- assert.AnError
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), renders.Load())

	events <- fsnotify.Event{Name: "/work/title.tmpl", Op: fsnotify.Create}
	require.Eventually(t, func() bool { return renders.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchLoopStopsOnRenderError(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := make(chan fsnotify.Event, 1)
	files := map[string]struct{}{"/a.tmpl": {}}

	events <- fsnotify.Event{Name: "/a.tmpl", Op: fsnotify.Write}
	err := watchLoop(context.Background(), events, nil, files, time.Millisecond, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWatchLoopClosedEvents(t *testing.T) {
	events := make(chan fsnotify.Event)
	close(events)
	assert.NoError(t, watchLoop(context.Background(), events, nil, nil, time.Millisecond, func() error { return nil }))
}
