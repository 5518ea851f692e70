package wine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kballard/go-shellquote"
	"golang.org/x/term"
)

var errEmptyCommand = errors.New("empty command")

// DefaultWaitDelay bounds how long Execute keeps reading output once the
// process has exited or the context is done. Wine leaves wineserver running
// with the same stdout, so without a bound a capture would last until the
// server shuts down.
const DefaultWaitDelay = 2 * time.Second

// Executor runs invocations against one Runtime. The Runtime is immutable;
// the selected terminal is the only per-session setting and is stored
// atomically, so an Executor may be used from several goroutines.
type Executor struct {
	rt        *Runtime
	terminal  atomic.Int32
	logger    *log.Logger
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	waitDelay time.Duration
}

// ExecutorOption customises NewExecutor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used for the per-invocation diagnostics.
func WithLogger(l *log.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithTerminal selects the initial terminal emulator.
func WithTerminal(t Terminal) ExecutorOption {
	return func(e *Executor) { e.terminal.Store(int32(t)) }
}

// WithStdin sets the stdin given to processes that have no Input sequence.
// By default they inherit os.Stdin.
func WithStdin(r io.Reader) ExecutorOption {
	return func(e *Executor) { e.stdin = r }
}

// WithStdout sets where a terminal-wrapped process writes its stdout.
// The default is os.Stdout.
func WithStdout(w io.Writer) ExecutorOption {
	return func(e *Executor) { e.stdout = w }
}

// WithStderr sets where wine's stderr (including WINEDEBUG output) goes.
// The default is os.Stderr.
func WithStderr(w io.Writer) ExecutorOption {
	return func(e *Executor) { e.stderr = w }
}

// WithWaitDelay overrides DefaultWaitDelay. Zero waits for output
// indefinitely.
func WithWaitDelay(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.waitDelay = d }
}

// NewExecutor returns an Executor bound to rt. Unless overridden, processes
// share the caller's stdin, stdout and stderr.
func NewExecutor(rt *Runtime, opts ...ExecutorOption) *Executor {
	e := &Executor{
		rt:        rt,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		waitDelay: DefaultWaitDelay,
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "wine"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Runtime returns the runtime the executor launches.
func (e *Executor) Runtime() *Runtime { return e.rt }

// Terminal returns the currently selected terminal emulator.
func (e *Executor) Terminal() Terminal { return Terminal(e.terminal.Load()) }

// SetTerminal selects the terminal emulator used by later invocations that
// set UseTerminal.
func (e *Executor) SetTerminal(t Terminal) { e.terminal.Store(int32(t)) }

// IsTerminal reports whether the given file descriptor is a terminal.
// Exported for use in CLI auto-detection.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Plan resolves the program, argv, environment and working directory that
// Execute would use for inv, without starting anything.
func (e *Executor) Plan(inv Invocation) CommandLine {
	dir := inv.WorkDir
	if dir == "" {
		dir = e.rt.PrefixPath()
	}

	path := e.rt.BinaryPath()
	args := append([]string{inv.Command}, inv.Args...)
	wrapped := false

	// Capture and terminal wrapping are exclusive: the terminal owns stdout.
	if inv.UseTerminal && !inv.Capture {
		if l, ok := e.Terminal().Launcher(); ok {
			inner := append([]string{path}, args...)
			if l.SingleArgument {
				args = []string{l.ExecFlag, shellquote.Join(inner...)}
			} else {
				args = append([]string{l.ExecFlag}, inner...)
			}
			path = l.Binary
			wrapped = true
		}
	}

	return CommandLine{
		Path:    path,
		Args:    args,
		Env:     PrepareEnv(e.rt, inv.Env),
		Dir:     dir,
		Wrapped: wrapped,
	}
}

// Execute runs inv to completion. It blocks until the process exits and its
// stdout has been drained, or for at most the wait delay once the process is
// gone. A *LaunchError is returned, and logged, when the
// process cannot be started, fed or awaited; a non-zero exit status is not
// an error and is reported in Result.ExitCode.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	if err := ValidateEncoding(inv.Encoding); err != nil {
		return Result{}, e.fail(StageStart, inv.Command, err)
	}
	if inv.Command == "" {
		return Result{}, e.fail(StageStart, inv.Command, errEmptyCommand)
	}

	line := e.Plan(inv)
	e.logger.Infof("Executing: %s", line)

	cmd := exec.CommandContext(ctx, line.Path, line.Args...)
	cmd.Dir = line.Dir
	cmd.Env = line.Env
	cmd.Stderr = e.stderr
	cmd.WaitDelay = e.waitDelay

	var stdinPipe io.WriteCloser
	if inv.Input != nil {
		var err error
		if stdinPipe, err = cmd.StdinPipe(); err != nil {
			return Result{}, e.fail(StageStart, inv.Command, err)
		}
	} else {
		cmd.Stdin = e.stdin
	}

	// os/exec copies stdout into the buffer on its own goroutine, so feeding
	// stdin below cannot block on a full output pipe.
	var stdout *bytes.Buffer
	if line.Wrapped {
		cmd.Stdout = e.stdout
	} else {
		stdout = new(bytes.Buffer)
		cmd.Stdout = stdout
	}

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return Result{}, e.fail(StageStart, inv.Command, err)
	}

	var feedErr error
	if stdinPipe != nil {
		feedErr = writeLines(stdinPipe, inv.Input)
		if err := stdinPipe.Close(); err != nil && feedErr == nil && !errors.Is(err, os.ErrClosed) {
			feedErr = err
		}
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if feedErr != nil {
		return Result{Duration: duration}, e.fail(StageFeed, inv.Command, feedErr)
	}

	// The process state decides the outcome. A context that expired after
	// the process exited on its own does not make the run a failure.
	state := cmd.ProcessState
	if state == nil || !state.Exited() {
		if waitErr == nil {
			waitErr = errors.New("process did not exit")
		}
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(waitErr, ctxErr) {
			waitErr = fmt.Errorf("%w: %w", ctxErr, waitErr)
		}
		return Result{Duration: duration}, e.fail(StageWait, inv.Command, waitErr)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// ErrWaitDelay or a copy error: output written after the process
		// exited, typically by wineserver, is dropped.
		e.logger.Warn("output may be incomplete", "command", inv.Command, "err", waitErr)
	}

	result := Result{
		Captured: inv.Capture && !line.Wrapped,
		ExitCode: state.ExitCode(),
		Duration: duration,
		launched: true,
	}

	if stdout != nil {
		out, err := DecodeOutput(stdout.Bytes(), inv.Encoding)
		if err != nil {
			e.logger.Warn("returning undecoded output", "err", err)
			out = stdout.String()
		}
		result.Output = out
	}

	return result, nil
}

// writeLines writes each line followed by a newline, in order.
func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// fail logs and wraps a launch failure.
func (e *Executor) fail(stage Stage, command string, err error) error {
	lerr := &LaunchError{Stage: stage, Command: command, Err: err}
	e.logger.Errorf("ERR: %v", lerr)
	return lerr
}
