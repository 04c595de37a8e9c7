package template_engine

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/shared"
	"github.com/tristendillon/assetpipe/core/version"
)

// SiteData is available to every demo template.
type SiteData struct {
	Name       string
	Version    string
	Stylesheet string // URL of the published minified stylesheet
	Script     string // URL of the published minified script
	BuiltAt    time.Time
}

func NewSiteData(cfg *config.Config) SiteData {
	assets := path.Join("/", cfg.Paths.Assets)
	return SiteData{
		Name:       cfg.Name,
		Version:    version.Version,
		Stylesheet: path.Join(assets, "css", cfg.Name+".min.css"),
		Script:     path.Join(assets, "js", cfg.Name+".min.js"),
		BuiltAt:    time.Now(),
	}
}

// BuildDemo builds the demo site from its sources into cfg.Paths.Demo, either
// with the configured generator command or with the template engine.
func BuildDemo(ctx context.Context, cfg *config.Config) error {
	log := logger.Tag("build:demo")
	source := cfg.DemoSource()

	if len(cfg.Demo.Command) > 0 {
		log.Info("Compiling demo with %v", cfg.Demo.Command)
		if _, err := shared.RunCommand(ctx, "", cfg.Demo.Command, os.Stderr); err != nil {
			return fmt.Errorf("failed to build demo: %w", err)
		}
		return nil
	}

	if !shared.Exists(source) {
		log.Debug("No demo sources at %s, skipping", source)
		return nil
	}

	written, err := NewTemplateEngine().GenerateFolder(os.DirFS(source), cfg.Paths.Demo, NewSiteData(cfg))
	if err != nil {
		return fmt.Errorf("failed to build demo: %w", err)
	}
	log.Info("Compiled demo into %s (%d files)", cfg.Paths.Demo, len(written))
	return nil
}

// CleanDemo removes the built demo site.
func CleanDemo(cfg *config.Config) error {
	logger.Tag("clean:demo").Info("Cleaning %s", cfg.Paths.Demo)
	if err := os.RemoveAll(cfg.Paths.Demo); err != nil {
		return fmt.Errorf("failed to clean demo: %w", err)
	}
	return nil
}
