package check

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/LegacyCodeHQ/fence/builder/registry"
	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/vcs"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const debounceInterval = 300 * time.Millisecond

// watchAndRecheck calls recheck after each burst of relevant changes under root
// until ctx is cancelled. Rechecks run one at a time on the calling goroutine.
func watchAndRecheck(ctx context.Context, root string, logger logrus.FieldLogger, recheck func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}
	logger.WithField("root", root).Info("watching for changes")

	relevant := relevantExtensions()
	rerun := make(chan struct{}, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event, relevant) {
				continue
			}
			logger.WithField("path", event.Name).Debug("source changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			recheck()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}

func relevantExtensions() map[string]bool {
	extensions := map[string]bool{".mod": true}
	for _, ext := range registry.SourceExtensions() {
		extensions[ext] = true
	}
	return extensions
}

func isRelevantChange(event fsnotify.Event, extensions map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if filepath.Base(event.Name) == config.FileName {
		return true
	}
	return extensions[filepath.Ext(event.Name)]
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers root and every non-skipped directory below it.
// Directories that vanish while walking are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && vcs.IsSkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
