package cmd

import (
	"context"
	"fmt"

	"github.com/tristendillon/assetpipe/core/bundle"
	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/dependency"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/pipeline"
	"github.com/tristendillon/assetpipe/core/template_engine"
	"golang.org/x/sync/errgroup"
)

func targets(cfg *config.Config, styles, scripts bool) []*bundle.Target {
	var out []*bundle.Target
	if styles {
		out = append(out, bundle.StylesTarget(cfg))
	}
	if scripts {
		out = append(out, bundle.ScriptsTarget(cfg))
	}
	return out
}

// buildBundles cleans, builds and publishes each target. Targets are built
// concurrently.
func buildBundles(ctx context.Context, cfg *config.Config, ts []*bundle.Target) error {
	builder := bundle.NewBuilder()
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range ts {
		t := t
		g.Go(func() error {
			if err := bundle.Clean(t); err != nil {
				return err
			}
			if _, err := builder.Build(ctx, t); err != nil {
				return err
			}
			return bundle.Publish(t, cfg.AssetDirs(string(t.Kind))...)
		})
	}
	return g.Wait()
}

func cleanAll(cfg *config.Config) error {
	for _, t := range targets(cfg, true, true) {
		if err := bundle.Clean(t); err != nil {
			return err
		}
	}
	return template_engine.CleanDemo(cfg)
}

func newInjector(cfg *config.Config, options ...dependency.Option) (*dependency.Injector, error) {
	return dependency.New(dependency.OptionsFromConfig(cfg.Dependencies), options...)
}

// buildDemo renders the demo site and vendors the dependencies its pages
// reference.
func buildDemo(ctx context.Context, cfg *config.Config, inj *dependency.Injector) error {
	if err := template_engine.BuildDemo(ctx, cfg); err != nil {
		return err
	}
	return inject(ctx, inj, pipeline.Glob(cfg.Paths.Demo, cfg.Demo.Pattern), cfg.Paths.Demo)
}

func inject(ctx context.Context, inj *dependency.Injector, src *pipeline.GlobSource, out string) error {
	log := logger.Tag(dependency.PluginName)
	report, err := pipeline.Run(ctx, src, pipeline.Dest(out), inj)
	if report != nil {
		log.Info("Processed %d files, wrote %d, %d with unresolved dependencies", report.Files, report.Written, len(report.Failed))
	}
	inj.Cache().LogStats()
	if err != nil {
		return fmt.Errorf("dependency injection failed: %w", err)
	}
	return nil
}
