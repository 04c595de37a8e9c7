package template_engine

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed all:templates
var templates embed.FS

// InitTemplate is the skeleton written by `assetpipe init`.
var InitTemplate = mustSub(templates, "templates/init")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("template_engine: %v", err))
	}
	return sub
}

type ScaffoldData struct {
	Name      string
	ClassName string
}

// NewScaffoldData derives template names from a package name such as
// "bulma-calendar".
func NewScaffoldData(name string) ScaffoldData {
	var class strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	}) {
		class.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return ScaffoldData{Name: name, ClassName: class.String()}
}
