package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/dependency"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/server"
	"github.com/tristendillon/assetpipe/core/watcher"
	"golang.org/x/sync/errgroup"
)

var serve bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Builds everything, then rebuilds on change",
	Long: `Builds the bundles and the demo site, then watches the sources and rebuilds
whatever a change affects. With --serve the demo is served at the same time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		b, err := newRebuilder(cfg)
		if err != nil {
			return err
		}
		if err := b.rebuild(ctx, watcher.Rebuild{Styles: true, Scripts: true, Demo: true}); err != nil {
			return err
		}

		fw, err := watcher.NewFileWatcher(".", watchExcludes(cfg))
		if err != nil {
			return err
		}
		fw.FileWatcher.AddOnStartFunc(func() error {
			logger.Info("Watching for changes...")
			return nil
		})
		fw.FileWatcher.AddOnChangeFunc(func(paths []string) error {
			return b.onChange(ctx, paths)
		})
		defer fw.Close()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fw.Watch(ctx) })
		if serve {
			g.Go(func() error { return server.NewServer(cfg).Run(ctx) })
		}
		return g.Wait()
	},
}

// watchExcludes keeps build outputs from triggering rebuilds.
func watchExcludes(cfg *config.Config) []string {
	excludes := []string{cfg.Paths.Dist, cfg.Paths.Demo, cfg.Styles.Destination, cfg.Scripts.Destination}
	excludes = append(excludes, cfg.AssetDirs("css")...)
	return append(excludes, cfg.AssetDirs("js")...)
}

type rebuilder struct {
	mu  sync.Mutex
	cfg *config.Config
	inj *dependency.Injector
}

func newRebuilder(cfg *config.Config) (*rebuilder, error) {
	inj, err := newInjector(cfg)
	if err != nil {
		return nil, err
	}
	return &rebuilder{cfg: cfg, inj: inj}, nil
}

func (b *rebuilder) onChange(ctx context.Context, paths []string) error {
	b.mu.Lock()
	r := watcher.Route(b.cfg, paths)
	b.mu.Unlock()
	if !r.Any() {
		logger.Debug("No rebuild needed for %v", paths)
		return nil
	}

	if r.Styles && r.Scripts && r.Demo {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		// keep ownership and skip state across the reload
		inj, err := newInjector(cfg, dependency.WithCache(b.inj.Cache()))
		if err != nil {
			return err
		}
		b.cfg, b.inj = cfg, inj
		return b.rebuildLocked(ctx, r)
	}
	return b.rebuild(ctx, r)
}

func (b *rebuilder) rebuild(ctx context.Context, r watcher.Rebuild) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rebuildLocked(ctx, r)
}

func (b *rebuilder) rebuildLocked(ctx context.Context, r watcher.Rebuild) error {
	if r.Styles || r.Scripts {
		if err := buildBundles(ctx, b.cfg, targets(b.cfg, r.Styles, r.Scripts)); err != nil {
			return err
		}
	}
	if r.Demo {
		return buildDemo(ctx, b.cfg, b.inj)
	}
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&serve, "serve", false, "Serve the demo while watching")
	rootCmd.AddCommand(watchCmd)
}
