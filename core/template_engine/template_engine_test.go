package template_engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/assetpipe/core/config"
)

func TestGenerateFolder(t *testing.T) {
	src := fstest.MapFS{
		"index.html.tmpl":      {Data: []byte(`<title>{{ .Name | title }}</title><link href="{{ .Stylesheet }}">`)},
		"docs/page.html":       {Data: []byte(`<script src="../node_modules/a/a.js"></script>`)},
		"assets/img/logo.svg":  {Data: []byte(`<svg/>`)},
		"docs/usage.html.tmpl": {Data: []byte(`{{ url "docs" "usage.html" }}`)},
	}
	out := t.TempDir()

	written, err := NewTemplateEngine().GenerateFolder(src, out, SiteData{Name: "calendar", Stylesheet: "/assets/css/calendar.min.css"})
	require.NoError(t, err)
	assert.Len(t, written, 4)

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, `<title>Calendar</title><link href="/assets/css/calendar.min.css">`, string(index))

	page, err := os.ReadFile(filepath.Join(out, "docs", "page.html"))
	require.NoError(t, err)
	assert.Equal(t, `<script src="../node_modules/a/a.js"></script>`, string(page))

	usage, err := os.ReadFile(filepath.Join(out, "docs", "usage.html"))
	require.NoError(t, err)
	assert.Equal(t, "/docs/usage.html", string(usage))

	assert.FileExists(t, filepath.Join(out, "assets", "img", "logo.svg"))
	assert.NoFileExists(t, filepath.Join(out, "index.html.tmpl"))
}

func TestGenerateFolderTemplateError(t *testing.T) {
	src := fstest.MapFS{"broken.html.tmpl": {Data: []byte(`{{ .Missing`)}}

	_, err := NewTemplateEngine().GenerateFolder(src, t.TempDir(), SiteData{})
	assert.ErrorContains(t, err, "failed to parse template broken.html.tmpl")
}

func TestBuildAndCleanDemo(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Name = "calendar"
	cfg.Paths.Src = filepath.Join(root, "src")
	cfg.Paths.Demo = filepath.Join(root, "demo")

	require.NoError(t, BuildDemo(context.Background(), cfg), "missing demo sources are skipped")
	assert.NoDirExists(t, cfg.Paths.Demo)

	// DemoSource joins src and demo, mirror that layout here
	source := cfg.DemoSource()
	require.NoError(t, os.MkdirAll(source, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "index.html.tmpl"), []byte(`{{ .Script }}`), 0644))

	require.NoError(t, BuildDemo(context.Background(), cfg))
	data, err := os.ReadFile(filepath.Join(cfg.Paths.Demo, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "/assets/js/calendar.min.js", string(data))

	require.NoError(t, CleanDemo(cfg))
	assert.NoDirExists(t, cfg.Paths.Demo)
}

func TestScaffoldInitTemplate(t *testing.T) {
	out := t.TempDir()

	written, err := NewTemplateEngine().GenerateFolder(InitTemplate, out, NewScaffoldData("bulma-calendar"))
	require.NoError(t, err)
	assert.Len(t, written, 3)

	js, err := os.ReadFile(filepath.Join(out, "src", "js", "index.js"))
	require.NoError(t, err)
	assert.Contains(t, string(js), "export default class BulmaCalendar {")

	html, err := os.ReadFile(filepath.Join(out, "src", "demo", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `<script src="../node_modules/bulma-calendar/dist/js/bulma-calendar.min.js"></script>`)
	assert.Contains(t, string(html), "<title>Bulma-calendar</title>")
}
