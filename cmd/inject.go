/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tristendillon/assetpipe/core/dependency"
	"github.com/tristendillon/assetpipe/core/pipeline"
)

var injectFlags struct {
	root             string
	out              string
	src              string
	dest             string
	dependenciesPath string
	folders          []string
	flat             bool
	base             string
	engineFallback   bool
	concurrency      int
}

var injectCmd = &cobra.Command{
	Use:   "inject [patterns...]",
	Short: "Vendors the dependencies referenced by the matching files",
	Long: `Scans the files matching the given glob patterns (relative to --root) for
quoted references into node_modules, copies each referenced file under
<src>/<dest> and rewrites the reference to the copy. Flags override the
dependencies section of the config file.`,
	Example: `  assetpipe inject --root demo --dest assets/js "**/*.html"
  assetpipe inject --flat --folders bower_components`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts := dependency.OptionsFromConfig(cfg.Dependencies)
		flags := cmd.Flags()
		if flags.Changed("src") {
			opts.Src = injectFlags.src
		}
		if flags.Changed("dest") {
			opts.Dest = injectFlags.dest
		}
		if flags.Changed("dependencies-path") {
			opts.DependenciesPath = injectFlags.dependenciesPath
		}
		if flags.Changed("folders") {
			opts.Folders = injectFlags.folders
		}
		if flags.Changed("flat") {
			opts.Flat = injectFlags.flat
		}
		if flags.Changed("base") {
			opts.Base = injectFlags.base
		}
		if flags.Changed("engine-fallback") {
			opts.EngineFallback = injectFlags.engineFallback
		}

		inj, err := dependency.New(opts, dependency.WithConcurrency(injectFlags.concurrency))
		if err != nil {
			return err
		}

		root := injectFlags.root
		if root == "" {
			root = cfg.Paths.Demo
		}
		out := injectFlags.out
		if out == "" {
			out = root
		}
		patterns := args
		if len(patterns) == 0 {
			patterns = []string{cfg.Demo.Pattern}
		}

		return inject(cmd.Context(), inj, pipeline.Glob(root, patterns...), out)
	},
}

func init() {
	flags := injectCmd.Flags()
	flags.StringVar(&injectFlags.root, "root", "", "Directory the patterns are matched in (default paths.demo)")
	flags.StringVar(&injectFlags.out, "out", "", "Directory the rewritten files are written to (default --root)")
	flags.StringVar(&injectFlags.src, "src", "", "Directory prepended to vendored paths")
	flags.StringVar(&injectFlags.dest, "dest", "", "Directory under --src receiving vendored files")
	flags.StringVar(&injectFlags.dependenciesPath, "dependencies-path", "", "Directory referenced packages are read from")
	flags.StringSliceVar(&injectFlags.folders, "folders", nil, "Extra folder names treated like node_modules")
	flags.BoolVar(&injectFlags.flat, "flat", false, "Vendor resource files without their directories")
	flags.StringVar(&injectFlags.base, "base", "", "Path marker namespacing module references by the directory after it")
	flags.BoolVar(&injectFlags.engineFallback, "engine-fallback", false, "Also read references from <dependencies-path>/<engine>/... when the file-relative path is missing")
	flags.IntVar(&injectFlags.concurrency, "concurrency", 0, "Copies in flight per file (default GOMAXPROCS)")
	rootCmd.AddCommand(injectCmd)
}
