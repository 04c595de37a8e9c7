package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFindsReferences(t *testing.T) {
	tests := []struct {
		name    string
		folders []string
		input   string
		want    []Reference
	}{
		{
			name:  "script tag",
			input: `<script src="./node_modules/jquery/dist/jquery.min.js"></script>`,
			want: []Reference{{
				Start: 12, End: 54, Quote: '"',
				URI:      "./node_modules/jquery/dist/jquery.min.js",
				Path:     "node_modules/jquery/dist/jquery.min.js",
				Engine:   "node_modules",
				Package:  "jquery",
				Filename: "dist/jquery.min.js",
				Ext:      ".js",
			}},
		},
		{
			name:  "single quotes and case insensitive folder",
			input: `href='../Bower_Components/pkg/pkg.css'`,
			want: []Reference{{
				Start: 5, End: 38, Quote: '\'',
				URI:      "../Bower_Components/pkg/pkg.css",
				Path:     "Bower_Components/pkg/pkg.css",
				Engine:   "Bower_Components",
				Package:  "pkg",
				Filename: "pkg.css",
				Ext:      ".css",
			}},
		},
		{
			name:  "extensionless module",
			input: `require('node_modules/mylib/index')`,
			want: []Reference{{
				Start: 8, End: 34, Quote: '\'',
				URI:      "node_modules/mylib/index",
				Path:     "node_modules/mylib/index",
				Engine:   "node_modules",
				Package:  "mylib",
				Filename: "index",
				Ext:      "",
			}},
		},
		{
			name:  "mixed separators",
			input: `"..\node_modules/pkg\lib\a.js"`,
			want: []Reference{{
				Start: 0, End: 30, Quote: '"',
				URI:      `..\node_modules/pkg\lib\a.js`,
				Path:     "node_modules/pkg/lib/a.js",
				Engine:   "node_modules",
				Package:  "pkg",
				Filename: "lib/a.js",
				Ext:      ".js",
			}},
		},
		{
			name:  "scoped package",
			input: `"/node_modules/@fortawesome/fontawesome/css/all.css"`,
			want: []Reference{{
				Start: 0, End: 52, Quote: '"',
				URI:      "/node_modules/@fortawesome/fontawesome/css/all.css",
				Path:     "node_modules/@fortawesome/fontawesome/css/all.css",
				Engine:   "node_modules",
				Package:  "@fortawesome/fontawesome",
				Filename: "css/all.css",
				Ext:      ".css",
			}},
		},
		{
			name:    "user folder",
			folders: []string{"vendor"},
			input:   `'vendor/lib/x.js'`,
			want: []Reference{{
				Start: 0, End: 17, Quote: '\'',
				URI:      "vendor/lib/x.js",
				Path:     "vendor/lib/x.js",
				Engine:   "vendor",
				Package:  "lib",
				Filename: "x.js",
				Ext:      ".js",
			}},
		},
		{
			name:    "user folder starting with a dot",
			folders: []string{".vendor"},
			input:   `'./.vendor/lib/x.js'`,
			want: []Reference{{
				Start: 0, End: 20, Quote: '\'',
				URI:      "./.vendor/lib/x.js",
				Path:     ".vendor/lib/x.js",
				Engine:   ".vendor",
				Package:  "lib",
				Filename: "x.js",
				Ext:      ".js",
			}},
		},
		{
			name:  "file directly under the folder",
			input: `"node_modules/app.js"`,
			want: []Reference{{
				Start: 0, End: 21, Quote: '"',
				URI:      "node_modules/app.js",
				Path:     "node_modules/app.js",
				Engine:   "node_modules",
				Filename: "app.js",
				Ext:      ".js",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMatcher(tt.folders).Scan([]byte(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain text", `<p>Hello "world"</p>`},
		{"rewritten reference", `<script src="/assets/js/jquery.min.js"></script>`},
		{"mismatched quotes", `"node_modules/pkg/a.js'`},
		{"unterminated", `"node_modules/pkg/a.js`},
		{"no path after folder", `"node_modules/"`},
		{"package directory only", `"node_modules/pkg/"`},
		{"backslash after folder", `"node_modules\pkg\a.js"`},
		{"space in path", `"node_modules/my pkg/a.js"`},
		{"folder not at path start", `"lib/node_modules/pkg/a.js"`},
		{"unknown folder", `"vendor/pkg/a.js"`},
	}

	m := NewMatcher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, m.Scan([]byte(tt.input)))
		})
	}
}

func TestScanMultipleNonOverlapping(t *testing.T) {
	input := `<link href="node_modules/a/a.css"><script src='bower_components/b/b.js'></script>"node_modules/c/c"`

	refs := NewMatcher(nil).Scan([]byte(input))
	require.Len(t, refs, 3)

	assert.Equal(t, "node_modules/a/a.css", refs[0].URI)
	assert.Equal(t, "bower_components/b/b.js", refs[1].URI)
	assert.Equal(t, "node_modules/c/c", refs[2].URI)
	for i := 1; i < len(refs); i++ {
		assert.LessOrEqual(t, refs[i-1].End, refs[i].Start)
	}
	for _, ref := range refs {
		assert.Equal(t, input[ref.Start+1:ref.End-1], ref.URI)
	}
}

func TestScanAdjacentQuotes(t *testing.T) {
	// the closing quote of a failed candidate may open the next reference
	input := `"x""node_modules/a/a.js"`
	refs := NewMatcher(nil).Scan([]byte(input))
	require.Len(t, refs, 1)
	assert.Equal(t, 3, refs[0].Start)
}

func TestScanNonASCIIPathCharacters(t *testing.T) {
	refs := NewMatcher(nil).Scan([]byte(`"node_modules/pkg/£§%.js"`))
	require.Len(t, refs, 1)
	assert.Equal(t, "£§%.js", refs[0].Filename)
}

func TestNewMatcherFolders(t *testing.T) {
	m := NewMatcher([]string{" vendor/ ", "", "NODE_MODULES", "lib"})
	assert.Equal(t, []string{"vendor", "NODE_MODULES", "lib", "bower_components"}, m.Folders())
}
