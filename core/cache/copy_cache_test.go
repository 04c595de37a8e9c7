package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestClaim(t *testing.T) {
	cc := NewCopyCache()

	prev, conflict := cc.Claim("demo/assets/js/a.js", "node_modules/a/a.js")
	assert.False(t, conflict)
	assert.Empty(t, prev)

	_, conflict = cc.Claim("demo/assets/js/a.js", "node_modules/a/a.js")
	assert.False(t, conflict, "same source claiming again is not a conflict")

	prev, conflict = cc.Claim("demo/assets/js/a.js", "bower_components/a/a.js")
	assert.True(t, conflict)
	assert.Equal(t, "node_modules/a/a.js", prev)
}

func TestUnchanged(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src.css")
	dst := filepath.Join(root, "dst.css")
	writeFile(t, src, "body{}")

	cc := NewCopyCache()

	same, err := cc.Unchanged(src, dst)
	require.NoError(t, err)
	assert.False(t, same, "missing destination")

	writeFile(t, dst, "body{}")
	same, err = cc.Unchanged(src, dst)
	require.NoError(t, err)
	assert.True(t, same)

	writeFile(t, dst, "html{}")
	cc.Forget(dst)
	same, err = cc.Unchanged(src, dst)
	require.NoError(t, err)
	assert.False(t, same, "same size but different bytes")

	stats := cc.GetStats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.InDelta(t, 33.3, stats.HitRate, 0.1)
}

func TestUnchangedMissingSource(t *testing.T) {
	cc := NewCopyCache()
	_, err := cc.Unchanged(filepath.Join(t.TempDir(), "nope"), "whatever")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClear(t *testing.T) {
	cc := NewCopyCache()
	cc.Claim("a", "b")
	cc.Clear()

	stats := cc.GetStats()
	assert.Zero(t, stats.Owners)
	assert.Zero(t, stats.TotalFiles)
}
