package watcher

import (
	"path/filepath"
	"strings"

	"github.com/tristendillon/assetpipe/core/config"
)

// Rebuild says which parts of the project a batch of changes invalidates.
type Rebuild struct {
	Styles  bool
	Scripts bool
	Demo    bool
}

func (r Rebuild) Any() bool {
	return r.Styles || r.Scripts || r.Demo
}

// Route maps changed paths onto the builds they invalidate. A change to the
// config file invalidates everything.
func Route(cfg *config.Config, paths []string) Rebuild {
	var r Rebuild
	for _, p := range paths {
		switch {
		case filepath.Base(p) == config.FileName:
			return Rebuild{Styles: true, Scripts: true, Demo: true}
		case within(p, cfg.Styles.Source):
			r.Styles = true
		case within(p, cfg.Scripts.Source):
			r.Scripts = true
		case within(p, cfg.DemoSource()):
			r.Demo = true
		}
	}
	return r
}

func within(path, dir string) bool {
	if dir == "" {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
