package wine

import (
	"fmt"
	"strings"
)

// Verbosity selects the WINEDEBUG channel set passed to the runtime.
type Verbosity int

// Supported verbosity levels.
const (
	// VerbositySilent disables all debug channels.
	VerbositySilent Verbosity = iota
	// VerbosityWarnAll disables warnings but keeps the other classes.
	VerbosityWarnAll
	// VerbosityFixmeOnly hides fixme messages.
	VerbosityFixmeOnly
	// VerbosityFull enables every channel.
	VerbosityFull
)

// WineDebug returns the WINEDEBUG value for v.
func (v Verbosity) WineDebug() string {
	switch v {
	case VerbositySilent:
		return "-all"
	case VerbosityWarnAll:
		return "-warn+all"
	case VerbosityFixmeOnly:
		return "fixme-all"
	case VerbosityFull:
		return "+all"
	}
	panic(fmt.Sprintf("wine: unknown verbosity %d", int(v)))
}

// String returns the user-facing name of v.
func (v Verbosity) String() string {
	switch v {
	case VerbositySilent:
		return "silent"
	case VerbosityWarnAll:
		return "warn-all"
	case VerbosityFixmeOnly:
		return "fixme-only"
	case VerbosityFull:
		return "full"
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

// IsValid reports whether v is one of the declared levels.
func (v Verbosity) IsValid() bool {
	return v >= VerbositySilent && v <= VerbosityFull
}

// ParseVerbosity maps a level name (as returned by String) to a Verbosity.
// The empty string yields VerbositySilent.
func ParseVerbosity(name string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "silent":
		return VerbositySilent, nil
	case "warn-all":
		return VerbosityWarnAll, nil
	case "fixme-only":
		return VerbosityFixmeOnly, nil
	case "full":
		return VerbosityFull, nil
	default:
		return VerbositySilent, fmt.Errorf("unsupported verbosity: %q (supported: silent, warn-all, fixme-only, full)", name)
	}
}
