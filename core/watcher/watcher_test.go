package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/assetpipe/core/config"
)

func TestRoute(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name  string
		paths []string
		want  Rebuild
	}{
		{"styles", []string{"src/scss/_calendar.scss"}, Rebuild{Styles: true}},
		{"scripts", []string{"src/js/index.js", "src/js/utils/date.js"}, Rebuild{Scripts: true}},
		{"demo", []string{"src/demo/index.html"}, Rebuild{Demo: true}},
		{"mixed", []string{"src/scss/a.scss", "src/demo/a.html"}, Rebuild{Styles: true, Demo: true}},
		{"config", []string{"src/js/a.js", config.FileName}, Rebuild{Styles: true, Scripts: true, Demo: true}},
		{"unrelated", []string{"README.md", "src/scssx/a.scss"}, Rebuild{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(cfg, tt.paths)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != Rebuild{}, got.Any())
		})
	}
}

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw, err := NewFileWatcher(root, []string{"dist", "**/*.min.js"})
	require.NoError(t, err)
	defer fw.Close()

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".git", "HEAD")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "node_modules")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "dist", "css", "a.css")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "demo", "assets", "js", "a.min.js")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src", "js", "a.js")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "distribution.md")))
}

func TestWatchBatchesChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))

	fw, err := NewFileWatcher(root, nil)
	require.NoError(t, err)
	fw.FileWatcher.Debounce = 50 * time.Millisecond

	var mu sync.Mutex
	var batches [][]string
	changed := make(chan struct{}, 8)
	fw.FileWatcher.AddOnChangeFunc(func(paths []string) error {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
		changed <- struct{}{}
		return nil
	})

	started := make(chan struct{})
	fw.FileWatcher.AddOnStartFunc(func() error {
		close(started)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()
	<-started

	a := filepath.Join(root, "src", "a.scss")
	b := filepath.Join(root, "src", "b.scss")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))

	seen := func() map[string]bool {
		mu.Lock()
		defer mu.Unlock()
		out := make(map[string]bool)
		for _, batch := range batches {
			for _, p := range batch {
				out[p] = true
			}
		}
		return out
	}

	deadline := time.After(5 * time.Second)
	for !(seen()[a] && seen()[b]) {
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("changes not delivered, got %v", seen())
		}
	}

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, fw.Close())
}
