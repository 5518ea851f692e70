package wine

import (
	"fmt"
	"path/filepath"

	"github.com/terrorizer1980/librarywine/internal/winepath"
)

// storeLayoutDirs are the subdirectories probed, in order, when the
// installation is a compatibility-tool bundle.
var storeLayoutDirs = []string{"dist", "files"}

// Runtime is a validated Wine installation paired with a prefix. It holds
// no OS resources and never changes after NewRuntime returns, so it can be
// shared freely between goroutines.
type Runtime struct {
	installPath string
	prefixPath  string
	verbosity   Verbosity
}

type runtimeOptions struct {
	verbosity   Verbosity
	storeLayout bool
	validator   winepath.Validator
}

// Option customises NewRuntime.
type Option func(*runtimeOptions)

// WithVerbosity sets the debug verbosity. The default is VerbositySilent.
func WithVerbosity(v Verbosity) Option {
	return func(o *runtimeOptions) { o.verbosity = v }
}

// WithStoreLayout marks the installation path as a compatibility-tool
// bundle whose runtime lives in a dist/ or files/ subdirectory.
func WithStoreLayout() Option {
	return func(o *runtimeOptions) { o.storeLayout = true }
}

// WithValidator replaces the filesystem validators.
func WithValidator(v winepath.Validator) Option {
	return func(o *runtimeOptions) { o.validator = v }
}

// NewRuntime validates installPath and prefixPath and returns the runtime
// they describe. The installation is checked before the prefix so that a bad
// installation never causes a prefix to be created.
func NewRuntime(installPath, prefixPath string, opts ...Option) (*Runtime, error) {
	o := runtimeOptions{
		verbosity: VerbositySilent,
		validator: winepath.Default,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.verbosity.IsValid() {
		return nil, fmt.Errorf("wine: unknown verbosity %d", int(o.verbosity))
	}

	if o.storeLayout {
		resolved, ok := resolveStoreLayout(installPath)
		if !ok {
			return nil, &LayoutError{
				Path:        installPath,
				StoreLayout: true,
				Reason:      "neither dist/ nor files/ exists",
			}
		}
		installPath = resolved
	}

	if !o.validator.ValidateRuntimePath(installPath) {
		return nil, &LayoutError{
			Path:        installPath,
			StoreLayout: o.storeLayout,
			Reason:      "bin/wine64 not found or not executable",
		}
	}

	if !o.validator.ValidatePrefixPath(prefixPath) {
		return nil, &PrefixError{Path: prefixPath}
	}

	return &Runtime{
		installPath: installPath,
		prefixPath:  prefixPath,
		verbosity:   o.verbosity,
	}, nil
}

// resolveStoreLayout returns the first existing bundle subdirectory of root.
func resolveStoreLayout(root string) (string, bool) {
	for _, dir := range storeLayoutDirs {
		candidate := filepath.Join(root, dir)
		if winepath.IsDir(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// InstallPath returns the resolved installation directory.
func (r *Runtime) InstallPath() string { return r.installPath }

// PrefixPath returns the prefix directory.
func (r *Runtime) PrefixPath() string { return r.prefixPath }

// Verbosity returns the configured debug verbosity.
func (r *Runtime) Verbosity() Verbosity { return r.verbosity }

// BinaryPath returns the wine64 entry point of the installation.
func (r *Runtime) BinaryPath() string {
	return filepath.Join(r.installPath, "bin", "wine64")
}
