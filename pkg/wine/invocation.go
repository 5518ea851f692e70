// Package wine launches programs through a Wine installation against an
// isolated prefix, with environment injection, verbosity control, optional
// terminal-emulator indirection and scripted standard input.
package wine

import (
	"fmt"
	"time"

	"github.com/kballard/go-shellquote"
)

// Invocation describes a single program run through wine.
type Invocation struct {
	// Command is the program handed to wine (e.g., "notepad.exe", "winecfg").
	Command string

	// Args are the arguments passed after Command, one argv element each.
	Args []string

	// Env holds extra environment variables. WINEPREFIX and WINEDEBUG are
	// owned by the Runtime and are ignored here in any letter case.
	Env map[string]string

	// Input is written to the child's stdin, one element per line. A nil
	// slice leaves stdin unredirected; an empty non-nil slice redirects it
	// and closes it straight away.
	Input []string

	// Capture requests the drained stdout in the Result.
	Capture bool

	// UseTerminal opens the program in the executor's terminal emulator.
	// It has no effect when Capture is set or no terminal is selected.
	UseTerminal bool

	// WorkDir is the working directory for the process.
	// If empty, the prefix path is used.
	WorkDir string

	// Encoding decodes captured output: utf8 (default), cp1252, utf16le,
	// utf16be or auto.
	Encoding string
}

// ParseArguments splits a single argument string into argv elements using
// POSIX shell quoting rules, without invoking a shell.
func ParseArguments(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments %q: %w", s, err)
	}
	return args, nil
}

// Result holds the outcome of an Execute call.
type Result struct {
	// Captured is true when the caller asked for output and stdout was
	// redirected. Output is then the full text written by the child.
	Captured bool

	// Output is the drained standard output. It is empty when the process
	// ran inside a terminal emulator.
	Output string

	// ExitCode is the process exit status.
	ExitCode int

	// Duration is the wall-clock time the process took to run.
	Duration time.Duration

	launched bool
}

// Success reports whether the process was started, fed and awaited without
// error. A non-zero ExitCode still counts as a completed launch.
func (r Result) Success() bool {
	return r.launched
}

// CommandLine is the fully resolved program, argv, environment and working
// directory for an invocation.
type CommandLine struct {
	Path    string
	Args    []string
	Env     []string
	Dir     string
	Wrapped bool
}

// String renders the command line with shell quoting, for display only.
func (c CommandLine) String() string {
	return shellquote.Join(append([]string{c.Path}, c.Args...)...)
}
