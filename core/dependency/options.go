package dependency

import (
	"strings"

	"github.com/tristendillon/assetpipe/core/config"
)

const (
	DefaultSrc              = "demo"
	DefaultDependenciesPath = "./"
)

// Options configure an Injector for a whole run.
type Options struct {
	// Src is prepended to every destination path.
	Src string
	// Dest is the directory under Src receiving vendored files. Required.
	Dest string
	// DependenciesPath is where referenced packages are read from.
	DependenciesPath string
	// Folders are extra directory names treated like node_modules.
	Folders []string
	// Flat drops the directories of resource files, keeping the base name.
	Flat bool
	// Base, when found in a file's path, namespaces module references by the
	// directory that follows it.
	Base string
	// EngineFallback also reads a reference from DependenciesPath joined with
	// its engine-rooted path when the file-relative path does not exist.
	EngineFallback bool
}

// OptionsFromConfig maps the dependencies section of assetpipe.yaml.
func OptionsFromConfig(cfg config.Dependencies) Options {
	return Options{
		Src:              cfg.Src,
		Dest:             cfg.Dest,
		DependenciesPath: cfg.DependenciesPath,
		Folders:          cfg.Folders,
		Flat:             cfg.Flat,
		Base:             cfg.Base,
		EngineFallback:   cfg.EngineFallback,
	}
}

func (o Options) withDefaults() Options {
	if o.Src == "" {
		o.Src = DefaultSrc
	}
	if o.DependenciesPath == "" {
		o.DependenciesPath = DefaultDependenciesPath
	}
	o.Dest = strings.Trim(toSlash(strings.TrimSpace(o.Dest)), "/")
	o.Folders = append([]string(nil), o.Folders...)
	return o
}
