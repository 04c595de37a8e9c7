package dependency

import (
	"path"
	"strings"
	"unicode/utf8"
)

// DefaultFolders are the package directories recognized without configuration.
var DefaultFolders = []string{"bower_components", "node_modules"}

// Reference is one quoted dependency path found in a file. Start and End are
// byte offsets of the whole quoted expression, quotes included.
type Reference struct {
	Start    int
	End      int
	Quote    byte
	URI      string // text between the quotes, as written
	Path     string // path from the dependency directory on, "/"-separated
	Engine   string // dependency directory name, as written
	Package  string // first segment below Engine ("@scope/name" for scoped packages)
	Filename string // remainder below Package
	Ext      string // extension of Filename, "" for module references
}

// Matcher finds dependency references in text. A zero Matcher is not usable;
// build one with NewMatcher.
type Matcher struct {
	folders []string
}

// NewMatcher recognizes the given folders in addition to DefaultFolders.
// User folders are tried first. Matching of folder names ignores case.
func NewMatcher(folders []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool)
	for _, f := range append(append([]string{}, folders...), DefaultFolders...) {
		f = strings.Trim(strings.TrimSpace(f), `/\`)
		if f == "" || seen[strings.ToLower(f)] {
			continue
		}
		seen[strings.ToLower(f)] = true
		m.folders = append(m.folders, f)
	}
	return m
}

func (m *Matcher) Folders() []string {
	return append([]string(nil), m.folders...)
}

// Scan returns every non-overlapping reference in content, left to right.
func (m *Matcher) Scan(content []byte) []Reference {
	var refs []Reference
	for i := 0; i < len(content); {
		if !isQuote(content[i]) {
			i++
			continue
		}
		if ref, ok := m.matchAt(content, i); ok {
			refs = append(refs, ref)
			i = ref.End
			continue
		}
		i++
	}
	return refs
}

func (m *Matcher) matchAt(content []byte, start int) (Reference, bool) {
	quote := content[start]

	prefixEnd := start + 1
	for prefixEnd < len(content) && isPrefixChar(content[prefixEnd]) {
		prefixEnd++
	}

	// the prefix run is greedy but may give characters back to a folder
	// name that itself starts with '.', '/' or '\'
	for engineStart := prefixEnd; engineStart > start; engineStart-- {
		for _, folder := range m.folders {
			if ref, ok := matchFolder(content, start, engineStart, folder, quote); ok {
				return ref, true
			}
		}
	}
	return Reference{}, false
}

func matchFolder(content []byte, start, engineStart int, folder string, quote byte) (Reference, bool) {
	engineEnd := engineStart + len(folder)
	if engineEnd >= len(content) || content[engineEnd] != '/' {
		return Reference{}, false
	}
	if !strings.EqualFold(string(content[engineStart:engineEnd]), folder) {
		return Reference{}, false
	}

	pathStart := engineEnd + 1
	pos := pathStart
	for pos < len(content) {
		r, size := utf8.DecodeRune(content[pos:])
		if !isPathRune(r) {
			break
		}
		pos += size
	}
	if pos == pathStart || pos >= len(content) || content[pos] != quote {
		return Reference{}, false
	}

	engine := string(content[engineStart:engineEnd])
	rest := toSlash(string(content[pathStart:pos]))
	pkg, filename := splitPackage(rest)
	if filename == "" || strings.HasSuffix(filename, "/") {
		return Reference{}, false
	}

	return Reference{
		Start:    start,
		End:      pos + 1,
		Quote:    quote,
		URI:      string(content[start+1 : pos]),
		Path:     engine + "/" + rest,
		Engine:   engine,
		Package:  pkg,
		Filename: filename,
		Ext:      path.Ext(filename),
	}, true
}

// splitPackage separates the package segment from the file path below it. A
// path with a single segment has no package.
func splitPackage(rest string) (pkg, filename string) {
	rest = strings.TrimLeft(rest, "/")
	idx := strings.Index(rest, "/")
	if idx < 0 {
		return "", rest
	}
	if strings.HasPrefix(rest, "@") {
		if next := strings.Index(rest[idx+1:], "/"); next >= 0 {
			idx += next + 1
		}
	}
	return rest[:idx], strings.TrimLeft(rest[idx+1:], "/")
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

func isPrefixChar(c byte) bool {
	return c == '.' || c == '/' || c == '\\'
}

func isPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(`.+@~$!;:/\{}()[]|=&*£%§_-`, r)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
