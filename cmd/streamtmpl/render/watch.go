package render

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/input"
)

const watchDebounce = 150 * time.Millisecond

func (me *Handler) runWatch(ctx context.Context, out io.Writer, args []string) error {
	settings, err := input.LoadSettings(ctx, me.fs, me.dir, me.data, me.maxDepth)
	if err != nil {
		return err
	}

	files := make(map[string]struct{})
	for _, path := range []string{settings.ConfigPath, settings.DataPath} {
		if path != "" {
			files[filepath.Clean(path)] = struct{}{}
		}
	}
	if len(args) > 0 {
		files[filepath.Clean(args[0])] = struct{}{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace files on save, so the directories are watched
	dirs := make(map[string]struct{})
	for file := range files {
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
	}

	rerender := func() error {
		if err := me.renderOnce(ctx, out, args); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("render failed")
			_, werr := fmt.Fprintf(out, "error: %v\n", err)
			return werr
		}
		return nil
	}

	if err := rerender(); err != nil {
		return err
	}

	return watchLoop(ctx, watcher.Events, watcher.Errors, files, watchDebounce, rerender)
}

// watchLoop calls rerender once per burst of changes to files. It returns when
// ctx is done or the event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, files map[string]struct{}, debounce time.Duration, rerender func() error) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if _, watched := files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			zerolog.Ctx(ctx).Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			timer.Reset(debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			zerolog.Ctx(ctx).Warn().Err(err).Msg("watcher error")

		case <-timer.C:
			if err := rerender(); err != nil {
				return err
			}
		}
	}
}
