package template_engine

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/shared"
)

// TemplateSuffix marks files rendered through text/template. The suffix is
// dropped from the output name; every other file is copied verbatim.
const TemplateSuffix = ".tmpl"

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     shared.ToTitle,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      strings.Join,

		"now":  time.Now,
		"date": func(t time.Time) string { return t.Format("2006-01-02") },

		"default": func(def, val interface{}) interface{} {
			if val == nil || val == "" {
				return def
			}
			return val
		},
		"env": os.Getenv,
		// url joins segments into a site-rooted URL
		"url": func(segments ...string) string {
			return path.Join(append([]string{"/"}, segments...)...)
		},
	}
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{funcMap: getDefaultFuncMap()}
}

func (te *TemplateEngine) AddFunc(name string, fn interface{}) {
	te.funcMap[name] = fn
}

func (te *TemplateEngine) AddFuncs(funcs template.FuncMap) {
	for name, fn := range funcs {
		te.funcMap[name] = fn
	}
}

// Render executes a single template read from src.
func (te *TemplateEngine) Render(src fs.FS, name string, data interface{}) ([]byte, error) {
	content, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", name, err)
	}

	tmpl, err := template.New(path.Base(name)).Funcs(te.funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return []byte(out.String()), nil
}

// GenerateFolder mirrors src into outputDir, rendering templates on the way.
// It returns the written files.
func (te *TemplateEngine) GenerateFolder(src fs.FS, outputDir string, data interface{}) ([]string, error) {
	var written []string

	err := fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		outputPath := filepath.Join(outputDir, filepath.FromSlash(name))
		if d.IsDir() {
			return shared.EnsureDir(outputPath)
		}

		var content []byte
		if strings.HasSuffix(name, TemplateSuffix) {
			logger.Debug("Rendering template %s", name)
			outputPath = strings.TrimSuffix(outputPath, TemplateSuffix)
			content, err = te.Render(src, name, data)
		} else {
			content, err = fs.ReadFile(src, name)
		}
		if err != nil {
			return err
		}

		if err := shared.WriteFile(outputPath, content); err != nil {
			return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		written = append(written, outputPath)
		return nil
	})

	return written, err
}
