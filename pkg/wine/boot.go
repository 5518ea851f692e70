package wine

import (
	"context"
	"fmt"
	"strings"
)

// BootState is a wineboot operation.
type BootState int

// wineboot operations.
const (
	BootEndSession BootState = iota
	BootForce
	BootInit
	BootKill
	BootRestart
	BootShutdown
	BootUpdate
)

// Flag returns the wineboot command-line flag for s.
func (s BootState) Flag() string {
	switch s {
	case BootEndSession:
		return "--end-session"
	case BootForce:
		return "--force"
	case BootInit:
		return "--init"
	case BootKill:
		return "--kill"
	case BootRestart:
		return "--restart"
	case BootShutdown:
		return "--shutdown"
	case BootUpdate:
		return "--update"
	}
	return ""
}

// String returns the flag without its leading dashes.
func (s BootState) String() string {
	if f := s.Flag(); f != "" {
		return strings.TrimPrefix(f, "--")
	}
	return fmt.Sprintf("BootState(%d)", int(s))
}

// ParseBootState maps a state name such as "init" or "--kill" to a BootState.
func ParseBootState(name string) (BootState, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "--")
	for s := BootEndSession; s <= BootUpdate; s++ {
		if s.String() == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unsupported boot state: %q", name)
}

// Boot runs wineboot with the flag for state inside the executor's prefix.
func (e *Executor) Boot(ctx context.Context, state BootState) (Result, error) {
	flag := state.Flag()
	if flag == "" {
		return Result{}, fmt.Errorf("wine: unknown boot state %d", int(state))
	}
	return e.Execute(ctx, Invocation{
		Command: "wineboot",
		Args:    []string{flag},
	})
}
