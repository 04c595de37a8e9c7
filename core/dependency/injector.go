package dependency

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tristendillon/assetpipe/core/cache"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/models"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// moduleExt is appended to extensionless references, which are assumed to
// be scripts loaded by a module loader.
const moduleExt = ".js"

// Injector vendors package files referenced from text files and rewrites the
// references to point at the vendored copies. It holds no per-file state and
// may be shared by concurrent pipelines.
type Injector struct {
	opts        Options
	matcher     *Matcher
	cache       *cache.CopyCache
	concurrency int
	log         *logger.Tagged
}

type Option func(*Injector)

// WithCache shares a copy cache between injectors of the same run.
func WithCache(c *cache.CopyCache) Option {
	return func(inj *Injector) {
		inj.cache = c
	}
}

// WithConcurrency bounds the number of copies in flight per file.
func WithConcurrency(n int) Option {
	return func(inj *Injector) {
		if n > 0 {
			inj.concurrency = n
		}
	}
}

func New(opts Options, options ...Option) (*Injector, error) {
	if strings.TrimSpace(opts.Dest) == "" {
		return nil, &ConfigurationError{Plugin: PluginName, Message: "please provide a destination path (dest)"}
	}
	opts = opts.withDefaults()

	inj := &Injector{
		opts:        opts,
		matcher:     NewMatcher(opts.Folders),
		cache:       cache.NewCopyCache(),
		concurrency: runtime.GOMAXPROCS(0),
		log:         logger.Tag(PluginName),
	}
	for _, o := range options {
		o(inj)
	}
	return inj, nil
}

func (inj *Injector) Options() Options {
	return inj.opts
}

func (inj *Injector) Matcher() *Matcher {
	return inj.matcher
}

func (inj *Injector) Cache() *cache.CopyCache {
	return inj.cache
}

// CopyPlan is the resolved form of a Reference inside a given file.
type CopyPlan struct {
	Reference      Reference
	Sources        []string // candidate files, first existing one wins
	Destination    string   // vendored file
	DestinationDir string
	URL            string // replacement reference, rooted at Dest
}

// Plan computes where ref is read from, where it is copied to and what it
// is rewritten to. It does not touch the filesystem.
func (inj *Injector) Plan(file *models.File, ref Reference) CopyPlan {
	name := ref.Filename
	if inj.opts.Flat && ref.Ext != "" {
		name = path.Base(name)
	}

	relDir := inj.opts.Dest
	if ref.Ext == "" {
		relDir = path.Join(inj.opts.Dest, inj.basename(file.Path), ref.Engine)
		name += moduleExt
	}
	relFile := path.Join(relDir, name)

	uri := toSlash(ref.URI)
	enginePath := ref.Path
	if ref.Ext == "" {
		uri += moduleExt
		enginePath += moduleExt
	}

	readPath := uri
	if !strings.HasPrefix(uri, "/") {
		readPath = path.Join(path.Dir(filepath.ToSlash(file.Path)), uri)
	}
	readPath = strings.TrimPrefix(readPath, "/")

	sources := []string{filepath.Join(inj.opts.DependenciesPath, filepath.FromSlash(readPath))}
	if inj.opts.EngineFallback {
		if fallback := filepath.Join(inj.opts.DependenciesPath, filepath.FromSlash(enginePath)); fallback != sources[0] {
			sources = append(sources, fallback)
		}
	}

	destination := filepath.Join(inj.opts.Src, filepath.FromSlash(relFile))
	return CopyPlan{
		Reference:      ref,
		Sources:        sources,
		Destination:    destination,
		DestinationDir: filepath.Dir(destination),
		URL:            path.Join("/", inj.opts.Dest, name),
	}
}

// basename is the directory of filePath that follows the Base marker.
func (inj *Injector) basename(filePath string) string {
	if inj.opts.Base == "" {
		return ""
	}
	p := filepath.ToSlash(filePath)
	idx := strings.Index(p, inj.opts.Base)
	if idx < 0 {
		return ""
	}
	return path.Dir(p[idx+len(inj.opts.Base):])
}

// Result is the outcome of rewriting one file.
type Result struct {
	File   *models.File
	Copied []models.CopiedDependency
}

// Rewrite vendors every reference found in file and returns the rewritten
// file. All copies have completed when Rewrite returns. References that could
// not be vendored keep their original text and are reported as
// *DependencyResolutionError values combined into the returned error; the
// returned Result is usable either way.
func (inj *Injector) Rewrite(ctx context.Context, file *models.File) (*Result, error) {
	refs := inj.matcher.Scan(file.Contents)
	if len(refs) == 0 {
		return &Result{File: file}, nil
	}

	plans := make([]CopyPlan, len(refs))
	owner := make(map[string]int, len(refs))
	for i, ref := range refs {
		plans[i] = inj.Plan(file, ref)
		// the last reference to a destination performs the copy
		owner[plans[i].Destination] = i
	}

	copies := make([]*models.CopiedDependency, len(refs))
	errs := make([]error, len(refs))

	var g errgroup.Group
	g.SetLimit(inj.concurrency)
	for i := range plans {
		if owner[plans[i].Destination] != i {
			continue
		}
		i := i
		g.Go(func() error {
			copies[i], errs[i] = inj.vendor(ctx, file, plans[i])
			return nil
		})
	}
	_ = g.Wait()

	var (
		out    bytes.Buffer
		last   int
		err    error
		result = &Result{}
	)
	out.Grow(len(file.Contents))
	for i, ref := range refs {
		out.Write(file.Contents[last:ref.Start])
		last = ref.End

		o := owner[plans[i].Destination]
		if errs[o] != nil {
			out.Write(file.Contents[ref.Start:ref.End])
			if o == i {
				err = multierr.Append(err, errs[o])
			}
			continue
		}

		out.WriteByte(ref.Quote)
		out.WriteString(plans[i].URL)
		out.WriteByte(ref.Quote)
		if o == i {
			result.Copied = append(result.Copied, *copies[o])
		}
	}
	out.Write(file.Contents[last:])

	result.File = &models.File{Base: file.Base, Path: file.Path, Contents: out.Bytes()}
	inj.log.Debug("%s: %d references, %d vendored", file.Path, len(refs), len(result.Copied))
	return result, err
}

// Transform adapts Rewrite to a pipeline stage.
func (inj *Injector) Transform(ctx context.Context, file *models.File) (*models.File, error) {
	result, err := inj.Rewrite(ctx, file)
	return result.File, err
}
