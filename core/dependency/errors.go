package dependency

import "fmt"

const PluginName = "dependencies-injector"

// ConfigurationError is returned by New when the options cannot be used.
type ConfigurationError struct {
	Plugin  string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Plugin, e.Message)
}

// DependencyResolutionError reports a reference that could not be vendored.
// The reference is left untouched in the rewritten file.
type DependencyResolutionError struct {
	Plugin    string
	File      string
	Reference string
	Err       error
}

func (e *DependencyResolutionError) Error() string {
	return fmt.Sprintf("%s: %s: cannot vendor %q: %v", e.Plugin, e.File, e.Reference, e.Err)
}

func (e *DependencyResolutionError) Unwrap() error {
	return e.Err
}

// Recoverable marks the error as scoped to a single reference, so a pipeline
// keeps processing the remaining files.
func (e *DependencyResolutionError) Recoverable() bool {
	return true
}
