package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/models"
)

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
}

func NewFileWatcher(rootDir string, excludePaths []string) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(rootDir, excludePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	logger.Debug("Excluding paths: %v", fw.ExcludePaths)
	return &FileWatcherImpl{
		FileWatcher: fw,
	}, nil
}

// Watch blocks until ctx is done or the underlying watcher fails. Changes are
// batched and handed to OnChange once no event arrived for the debounce window.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.FileWatcher.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if fw.shouldExcludePath(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}

			logger.Debug("File event: %s %s", event.Op, event.Name)

			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
					if err := fw.addWatchersRecursively(event.Name); err != nil {
						logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			fw.debounceChange(event.Name)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) debounceChange(path string) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.FileWatcher.Pending[path] = struct{}{}

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, fw.flush)
}

func (fw *FileWatcherImpl) flush() {
	fw.FileWatcher.Mutex.Lock()
	paths := make([]string, 0, len(fw.FileWatcher.Pending))
	for path := range fw.FileWatcher.Pending {
		paths = append(paths, path)
	}
	fw.FileWatcher.Pending = make(map[string]struct{})
	fw.FileWatcher.Mutex.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	logger.Debug("File changes detected, rebuilding %d paths...", len(paths))
	if err := fw.FileWatcher.OnChange(paths); err != nil {
		logger.Error("Watcher.OnChange failed: %v", err)
	}
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

// shouldExcludePath matches path, relative to the root, against each exclude
// entry both as a directory prefix and as a doublestar pattern.
func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(fw.FileWatcher.RootDir, path)
	if err != nil {
		return false
	}

	relPath = filepath.ToSlash(filepath.Clean(relPath))

	for _, excludePath := range fw.FileWatcher.ExcludePaths {
		excludePath = filepath.ToSlash(filepath.Clean(excludePath))

		if relPath == excludePath {
			return true
		}
		if strings.HasPrefix(relPath, excludePath+"/") {
			return true
		}
		if ok, _ := doublestar.Match(excludePath, relPath); ok {
			return true
		}
	}

	return false
}

func (fw *FileWatcherImpl) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != fw.FileWatcher.RootDir && fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.FileWatcher.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
