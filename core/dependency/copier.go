package dependency

import (
	"context"
	"fmt"
	"os"

	"github.com/tristendillon/assetpipe/core/models"
	"github.com/tristendillon/assetpipe/core/shared"
)

// vendor copies the file behind plan into its destination.
func (inj *Injector) vendor(ctx context.Context, file *models.File, plan CopyPlan) (*models.CopiedDependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fail := func(err error) error {
		return &DependencyResolutionError{
			Plugin:    PluginName,
			File:      file.Path,
			Reference: plan.Reference.URI,
			Err:       err,
		}
	}

	source, err := resolveSource(plan.Sources)
	if err != nil {
		return nil, fail(err)
	}
	if previous, conflict := inj.cache.Claim(plan.Destination, source); conflict {
		inj.log.Warn("%s is vendored from both %s and %s, keeping the latter", plan.Destination, previous, source)
	}
	inj.log.Debug("Vendoring %s", plan.Reference.URI)
	inj.log.Debug("  Source path: %s", source)
	inj.log.Debug("  Target path: %s", plan.Destination)

	if err := shared.EnsureDir(plan.DestinationDir); err != nil {
		return nil, fail(err)
	}

	copied := &models.CopiedDependency{
		OriginalPath:  source,
		GeneratedPath: plan.Destination,
		URL:           plan.URL,
	}

	if same, err := inj.cache.Unchanged(source, plan.Destination); err == nil && same {
		copied.Skipped = true
		return copied, nil
	}

	if err := shared.CopyFile(source, plan.Destination); err != nil {
		return nil, fail(fmt.Errorf("failed to copy %s to %s: %w", source, plan.Destination, err))
	}
	inj.cache.Forget(plan.Destination)

	return copied, nil
}

// resolveSource returns the first candidate that is a regular file.
func resolveSource(candidates []string) (string, error) {
	var firstErr error
	for _, candidate := range candidates {
		stat, err := os.Stat(candidate)
		if err == nil && stat.Mode().IsRegular() {
			return candidate, nil
		}
		if err == nil {
			err = fmt.Errorf("%s is not a regular file", candidate)
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no source candidates")
	}
	return "", firstErr
}
