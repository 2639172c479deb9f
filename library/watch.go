package library

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"go-practice/debug"
)

// WatchDelay batches bursts of file events into one rescan
const WatchDelay = 250 * time.Millisecond

// Watch rescans the library whenever MIDI files under it change and then
// calls onChange, until ctx is done. onChange may be nil.
func (l *Library) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch library: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, l.dir); err != nil {
		return fmt.Errorf("watch library: %w", err)
	}

	debounced := debounce.New(WatchDelay)
	rescan := func() {
		if err := l.Rescan(); err != nil {
			debug.Error("library", err, "rescan failed")
			return
		}
		if onChange != nil {
			onChange()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// new subdirectories need their own watch
				_ = addDirs(watcher, event.Name)
			}
			if isMidi(event.Name) || event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debug.Log("library", "%s %s", event.Op, event.Name)
				debounced(rescan)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Error("library", err, "watcher")
		}
	}
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
