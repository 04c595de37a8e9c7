package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/shared"
)

type Kind string

const (
	Styles  Kind = "css"
	Scripts Kind = "js"
)

func (k Kind) mediaType() string {
	if k == Styles {
		return "text/css"
	}
	return "application/javascript"
}

// Target is one bundle: an input compiled into <Name>.<kind> and
// <Name>.min.<kind> under the bundle destination.
type Target struct {
	Kind   Kind
	Name   string
	Bundle config.Bundle
}

func StylesTarget(cfg *config.Config) *Target {
	return &Target{Kind: Styles, Name: cfg.Name, Bundle: cfg.Styles}
}

func ScriptsTarget(cfg *config.Config) *Target {
	return &Target{Kind: Scripts, Name: cfg.Name, Bundle: cfg.Scripts}
}

func (t *Target) InputPath() string {
	return filepath.Join(t.Bundle.Source, t.Bundle.Input)
}

func (t *Target) OutputPath() string {
	return filepath.Join(t.Bundle.Destination, t.Name+"."+string(t.Kind))
}

func (t *Target) MinifiedPath() string {
	return filepath.Join(t.Bundle.Destination, t.Name+".min."+string(t.Kind))
}

// CompileFunc turns the input file into bundle contents.
type CompileFunc func(ctx context.Context, argv []string, input string) ([]byte, error)

func runCompiler(ctx context.Context, argv []string, input string) ([]byte, error) {
	args := append(append([]string{}, argv...), input)
	return shared.RunCommand(ctx, "", args, os.Stderr)
}

type Builder struct {
	minifier *minify.M
	compile  CompileFunc
}

type BuilderOption func(*Builder)

// WithCompiler replaces the external compiler invocation, mainly for tests.
func WithCompiler(fn CompileFunc) BuilderOption {
	return func(b *Builder) {
		b.compile = fn
	}
}

func NewBuilder(options ...BuilderOption) *Builder {
	m := minify.New()
	m.AddFunc(Styles.mediaType(), css.Minify)
	m.AddFunc(Scripts.mediaType(), js.Minify)

	b := &Builder{minifier: m, compile: runCompiler}
	for _, o := range options {
		o(b)
	}
	return b
}

type Output struct {
	Path         string
	MinifiedPath string
	Size         int
	MinifiedSize int
}

// Build compiles and minifies t. A missing input is not an error: nothing is
// built and Build returns nil.
func (b *Builder) Build(ctx context.Context, t *Target) (*Output, error) {
	log := logger.Tag("build:" + string(t.Kind))
	input := t.InputPath()
	if !shared.Exists(input) {
		log.Debug("No input at %s, skipping", input)
		return nil, nil
	}

	var (
		compiled []byte
		err      error
	)
	if len(t.Bundle.Compiler) > 0 {
		log.Debug("Compiling %s with %v", input, t.Bundle.Compiler)
		compiled, err = b.compile(ctx, t.Bundle.Compiler, input)
	} else {
		compiled, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", input, err)
	}

	minified, err := b.minifier.Bytes(t.Kind.mediaType(), compiled)
	if err != nil {
		return nil, fmt.Errorf("failed to minify %s: %w", input, err)
	}

	out := &Output{
		Path:         t.OutputPath(),
		MinifiedPath: t.MinifiedPath(),
		Size:         len(compiled),
		MinifiedSize: len(minified),
	}
	if err := shared.WriteFile(out.Path, compiled); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", out.Path, err)
	}
	if err := shared.WriteFile(out.MinifiedPath, minified); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", out.MinifiedPath, err)
	}

	log.Info("Generated %s (%d bytes) and %s (%d bytes)", out.Path, out.Size, out.MinifiedPath, out.MinifiedSize)
	return out, nil
}

// Clean removes the outputs of t.
func Clean(t *Target) error {
	for _, path := range []string{t.OutputPath(), t.MinifiedPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// Publish copies the minified output of t into each of dirs. It is a no-op
// when the bundle has not been built.
func Publish(t *Target, dirs ...string) error {
	src := t.MinifiedPath()
	if !shared.Exists(src) {
		logger.Debug("Nothing to publish, %s does not exist", src)
		return nil
	}
	for _, dir := range dirs {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := shared.CopyFile(src, dst); err != nil {
			return fmt.Errorf("failed to publish %s to %s: %w", src, dir, err)
		}
		logger.Debug("Published %s to %s", src, dst)
	}
	return nil
}
