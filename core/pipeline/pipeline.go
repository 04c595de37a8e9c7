package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/models"
	"github.com/tristendillon/assetpipe/core/shared"
	"go.uber.org/multierr"
)

// Source produces the files of a pipeline one at a time.
type Source interface {
	Each(ctx context.Context, fn func(*models.File) error) error
}

// Sink consumes the files a pipeline produced.
type Sink interface {
	Write(file *models.File) error
}

// Transform rewrites one file. It may return a usable file together with a
// recoverable error, see Run.
type Transform interface {
	Transform(ctx context.Context, file *models.File) (*models.File, error)
}

type TransformFunc func(ctx context.Context, file *models.File) (*models.File, error)

func (f TransformFunc) Transform(ctx context.Context, file *models.File) (*models.File, error) {
	return f(ctx, file)
}

// recoverable is implemented by errors scoped to a single file that must not
// stop the rest of the run.
type recoverable interface {
	Recoverable() bool
}

func isRecoverable(err error) bool {
	for _, e := range multierr.Errors(err) {
		var r recoverable
		if !errors.As(e, &r) || !r.Recoverable() {
			return false
		}
	}
	return true
}

// GlobSource reads the files under Root matching any of Patterns.
type GlobSource struct {
	Root     string
	Patterns []string
}

func Glob(root string, patterns ...string) *GlobSource {
	return &GlobSource{Root: root, Patterns: patterns}
}

// Paths returns the matching regular files in lexical order. A missing Root
// matches nothing.
func (g *GlobSource) Paths() ([]string, error) {
	if !shared.Exists(g.Root) {
		return nil, nil
	}
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range g.Patterns {
		matches, err := doublestar.Glob(filepath.Join(g.Root, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			stat, err := os.Stat(match)
			if err != nil || !stat.Mode().IsRegular() {
				continue
			}
			seen[match] = true
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (g *GlobSource) Each(ctx context.Context, fn func(*models.File) error) error {
	paths, err := g.Paths()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := fn(models.NewFile(g.Root, path, contents)); err != nil {
			return err
		}
	}
	return nil
}

// DirSink writes files below Dir, keeping their path relative to the source root.
type DirSink struct {
	Dir string
}

func Dest(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (d *DirSink) Write(file *models.File) error {
	target := filepath.Join(d.Dir, file.Relative())
	if err := shared.WriteFile(target, file.Contents); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

type Report struct {
	Files   int
	Written int
	Failed  []string
}

// Run feeds every file of src through transforms and into dst, one file at a
// time. A recoverable transform error is logged and collected, and the file
// is still written with whatever content the transform returned. Any other
// error stops the run.
func Run(ctx context.Context, src Source, dst Sink, transforms ...Transform) (*Report, error) {
	report := &Report{}
	var collected error

	err := src.Each(ctx, func(file *models.File) error {
		report.Files++
		current := file
		failed := false

		for _, t := range transforms {
			next, err := t.Transform(ctx, current)
			if err != nil {
				if !isRecoverable(err) {
					return fmt.Errorf("%s: %w", file.Path, err)
				}
				for _, e := range multierr.Errors(err) {
					logger.Error("%v", e)
				}
				collected = multierr.Append(collected, err)
				failed = true
			}
			current = next
			if current == nil {
				break
			}
		}

		if failed {
			report.Failed = append(report.Failed, file.Path)
		}
		if current == nil {
			return nil
		}
		if err := dst.Write(current); err != nil {
			return err
		}
		report.Written++
		return nil
	})
	if err != nil {
		return report, multierr.Append(collected, err)
	}
	return report, collected
}
