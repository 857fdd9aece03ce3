package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/borgorg/idynutils/logging"
)

// watchFiles calls run once, then again after every burst of writes to any of paths, until ctx is done.
// Failures of run are logged and do not stop the watch.
func watchFiles(ctx context.Context, logger logging.Logger, paths []string, wait time.Duration, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "cannot create file watcher")
	}
	defer goutils.UncheckedErrorFunc(watcher.Close)

	// editors often replace a file on save, so watch the directories and filter by name
	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "cannot watch %q", dir)
		}
	}

	rerun := make(chan struct{}, 1)
	debounced := debounce.New(wait)
	trigger := func() {
		select {
		case rerun <- struct{}{}:
		default:
		}
	}
	trigger()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debugw("input changed", "file", event.Name, "op", event.Op.String())
			debounced(trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("file watcher error", "error", err)
		case <-rerun:
			if err := run(); err != nil {
				logger.Errorw("cannot compute constraints", "error", err)
			}
		}
	}
}
