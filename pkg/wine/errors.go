package wine

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrInvalidRuntimeLayout means the installation path, or its
	// compatibility-tool subdirectory, is not a Wine installation.
	ErrInvalidRuntimeLayout = errors.New("invalid runtime layout")

	// ErrInvalidPrefix means the prefix could not be validated or created.
	ErrInvalidPrefix = errors.New("invalid prefix")

	// ErrLaunchFailure means a process could not be started, fed or awaited.
	ErrLaunchFailure = errors.New("launch failure")
)

// LayoutError reports a rejected installation path.
type LayoutError struct {
	Path string
	// StoreLayout is true when the path came from a compatibility-tool bundle.
	StoreLayout bool
	Reason      string
}

func (e *LayoutError) Error() string {
	source := "wine"
	if e.StoreLayout {
		source = "compatibility tool"
	}
	return fmt.Sprintf("%s path %q is not valid: %s", source, e.Path, e.Reason)
}

// Unwrap returns ErrInvalidRuntimeLayout.
func (e *LayoutError) Unwrap() error { return ErrInvalidRuntimeLayout }

// PrefixError reports a prefix that is invalid and could not be created.
type PrefixError struct {
	Path string
}

func (e *PrefixError) Error() string {
	return fmt.Sprintf("prefix path %q is invalid and creation failed", e.Path)
}

// Unwrap returns ErrInvalidPrefix.
func (e *PrefixError) Unwrap() error { return ErrInvalidPrefix }

// Stage names the lifecycle step a launch failed in.
type Stage string

// Launch stages.
const (
	StageStart Stage = "start"
	StageFeed  Stage = "feed"
	StageWait  Stage = "wait"
)

// LaunchError is returned by Execute when the child could not be run to
// completion. Both errors.Is(err, ErrLaunchFailure) and errors.Is(err, cause)
// hold.
type LaunchError struct {
	Stage   Stage
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to %s command %q: %v", e.Stage, e.Command, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LaunchError) Unwrap() []error { return []error{ErrLaunchFailure, e.Err} }
