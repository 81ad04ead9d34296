// Package watcher subscribes to vault file-creation events and feeds newly
// created Markdown notes to the import pipeline.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// CreateHandler is invoked once per created .md file with its vault-relative
// path (forward slashes).
type CreateHandler func(ctx context.Context, rel string)

// Watch starts an fsnotify watcher on the vault root and dispatches file
// creation events until ctx is cancelled. Each creation event triggers the
// handler at most once; writes, removes, and renames are ignored.
//
// New directories created at runtime are automatically added to the watch
// list, and any .md files they already contain are dispatched — a daily
// notes folder created together with its first note must not lose that
// note's event.
func Watch(ctx context.Context, vaultRoot string, logger *slog.Logger, handle CreateHandler) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create == 0 {
				continue
			}
			absPath := ev.Name

			// --- Handle new directories: add to watcher ---
			if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
				if addErr := addDirsRecursive(w, absPath); addErr != nil {
					logger.Warn("watcher: add new dir failed",
						slog.String("path", absPath),
						slog.String("error", addErr.Error()))
				} else {
					logger.Debug("watcher: watching new dir", slog.String("path", absPath))
				}
				dispatchNewDir(ctx, vaultRoot, absPath, logger, handle)
				continue
			}

			if !strings.HasSuffix(absPath, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(vaultRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			logger.Debug("watcher: created", slog.String("path", rel))
			handle(ctx, rel)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// dispatchNewDir dispatches any .md files found in a newly created directory.
func dispatchNewDir(ctx context.Context, vaultRoot, dirPath string, logger *slog.Logger, handle CreateHandler) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(vaultRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		logger.Debug("watcher: created in new dir", slog.String("path", rel))
		handle(ctx, rel)
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
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
