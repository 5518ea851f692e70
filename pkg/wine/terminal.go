package wine

import (
	"fmt"
	"strings"
)

// Terminal identifies a terminal emulator used to show a wine process.
type Terminal int

// Supported terminal emulators.
const (
	TerminalNone Terminal = iota
	TerminalXterm
	TerminalKonsole
	TerminalGnome
	TerminalXfce4
	TerminalMate
)

// Launcher describes how a terminal emulator is told to run a command.
type Launcher struct {
	// Binary is the terminal executable.
	Binary string

	// ExecFlag introduces the command to run.
	ExecFlag string

	// SingleArgument is set for terminals whose ExecFlag takes the whole
	// command line as one quoted string.
	SingleArgument bool
}

// Launcher returns the launch description for t. The second result is
// false for TerminalNone and unknown values.
func (t Terminal) Launcher() (Launcher, bool) {
	switch t {
	case TerminalNone:
		return Launcher{}, false
	case TerminalXterm:
		return Launcher{Binary: "xterm", ExecFlag: "-e"}, true
	case TerminalKonsole:
		return Launcher{Binary: "konsole", ExecFlag: "-e"}, true
	case TerminalGnome:
		return Launcher{Binary: "gnome-terminal", ExecFlag: "--"}, true
	case TerminalXfce4:
		return Launcher{Binary: "xfce4-terminal", ExecFlag: "--command", SingleArgument: true}, true
	case TerminalMate:
		return Launcher{Binary: "mate-terminal", ExecFlag: "--command", SingleArgument: true}, true
	}
	return Launcher{}, false
}

// String returns the terminal name, which is also its binary name.
func (t Terminal) String() string {
	if t == TerminalNone {
		return "none"
	}
	if l, ok := t.Launcher(); ok {
		return l.Binary
	}
	return fmt.Sprintf("Terminal(%d)", int(t))
}

// ParseTerminal maps a terminal name to a Terminal. The empty string
// yields TerminalNone.
func ParseTerminal(name string) (Terminal, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return TerminalNone, nil
	case "xterm":
		return TerminalXterm, nil
	case "konsole":
		return TerminalKonsole, nil
	case "gnome-terminal", "gnome":
		return TerminalGnome, nil
	case "xfce4-terminal", "xfce4":
		return TerminalXfce4, nil
	case "mate-terminal", "mate":
		return TerminalMate, nil
	default:
		return TerminalNone, fmt.Errorf("unsupported terminal: %q (supported: none, xterm, konsole, gnome-terminal, xfce4-terminal, mate-terminal)", name)
	}
}
