package web

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watch reloads the fixture from path whenever the file changes, until ctx
// is cancelled. A file that fails to parse leaves the current fixture in
// place. onReload, when set, is called after each reload attempt.
func (s *Server) Watch(ctx context.Context, path string, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory containing the fixture file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go s.watchLoop(ctx, watcher, path, onReload)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onReload func(error)) {
	defer watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	log := slog.Default().With("fixture", path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				err := s.reload(path)
				if err != nil {
					log.Warn("fixture reload failed", "err", err)
				} else {
					log.Info("fixture reloaded", "services", len(s.Fixture().Services))
				}
				if onReload != nil {
					onReload(err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("fixture watcher error", "err", err)
		}
	}
}

func (s *Server) reload(path string) error {
	fx, err := LoadFixture(path)
	if err != nil {
		return err
	}
	s.SetFixture(fx)
	return nil
}
