package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce absorbs the burst of events an editor save produces.
var watchDebounce = 300 * time.Millisecond

// watchFile runs fn once, then again after every settled write to path,
// until ctx is done. The parent directory is watched so editors that
// save by rename keep triggering runs.
func watchFile(ctx context.Context, path string, logger *zap.Logger, fn func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if err := fn(ctx); err != nil {
		return err
	}
	logger.Info("watching for changes", zap.String("path", abs))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-pending:
			pending = nil
			if err := fn(ctx); err != nil {
				logger.Warn("re-analysis failed", zap.String("path", abs), zap.Error(err))
			}
		}
	}
}
