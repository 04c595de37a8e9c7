package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/assetpipe/core/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newProject runs the test from a fresh project root with the default layout.
func newProject(t *testing.T) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)

	cfg := config.Default()
	cfg.Name = "calendar"
	cfg.Styles.Compiler = nil
	cfg.Styles.Input = "index.css"

	return root, cfg
}

func TestBuildBundlesPublishes(t *testing.T) {
	root, cfg := newProject(t)
	writeFile(t, filepath.Join(root, "src", "scss", "index.css"), "a {\n  color: red;\n}\n")
	writeFile(t, filepath.Join(root, "src", "js", "index.js"), "var answer = 40 + 2;\n")

	require.NoError(t, buildBundles(context.Background(), cfg, targets(cfg, true, true)))

	assert.FileExists(t, filepath.Join(root, "dist", "css", "calendar.css"))
	assert.FileExists(t, filepath.Join(root, "dist", "js", "calendar.min.js"))
	for _, dir := range cfg.AssetDirs("css") {
		assert.FileExists(t, filepath.Join(dir, "calendar.min.css"))
	}
	for _, dir := range cfg.AssetDirs("js") {
		assert.FileExists(t, filepath.Join(dir, "calendar.min.js"))
	}

	require.NoError(t, cleanAll(cfg))
	assert.NoFileExists(t, filepath.Join(root, "dist", "css", "calendar.css"))
	assert.NoDirExists(t, cfg.Paths.Demo)
}

func TestBuildDemoVendorsDependencies(t *testing.T) {
	root, cfg := newProject(t)
	writeFile(t, filepath.Join(root, "node_modules", "bulma", "css", "bulma.min.css"), "body{}")
	writeFile(t, filepath.Join(root, "src", "demo", "index.html"),
		`<link href="../node_modules/bulma/css/bulma.min.css"><link href="../node_modules/missing/a.css">`)

	inj, err := newInjector(cfg)
	require.NoError(t, err)

	err = buildDemo(context.Background(), cfg, inj)
	require.Error(t, err, "the missing package is reported")

	data, err := os.ReadFile(filepath.Join(root, "demo", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, `<link href="/assets/js/css/bulma.min.css"><link href="../node_modules/missing/a.css">`, string(data))
	assert.FileExists(t, filepath.Join(root, "demo", "assets", "js", "css", "bulma.min.css"))
}

func TestRebuilderKeepsCacheAcrossConfigReload(t *testing.T) {
	_, cfg := newProject(t)

	b, err := newRebuilder(cfg)
	require.NoError(t, err)
	before := b.inj

	require.NoError(t, b.onChange(context.Background(), []string{config.FileName}))

	assert.NotSame(t, before, b.inj, "the injector is rebuilt from the reloaded config")
	assert.Same(t, before.Cache(), b.inj.Cache())
}

func TestWatchExcludesBuildOutputs(t *testing.T) {
	cfg := config.Default()
	excludes := watchExcludes(cfg)

	assert.Contains(t, excludes, "dist/")
	assert.Contains(t, excludes, "demo/")
	assert.Contains(t, excludes, filepath.Join("src", "demo", "assets", "css"))
	assert.NotContains(t, excludes, "src/")
}
