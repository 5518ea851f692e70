// winerun launches Windows programs through a Wine installation against an
// isolated prefix.
//
// Usage:
//
//	winerun run [flags] -- <command> [args...]
//	winerun plan [flags] -- <command> [args...]
//	winerun boot <state>
//	winerun batch <file.toml>
//	winerun config show
//	winerun version
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
)

// Build-time variables, injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "winerun",
	Short: "Run Windows programs through Wine in an isolated prefix",
	Long: `winerun launches programs through a Wine installation against a
per-application prefix. It sets WINEPREFIX and WINEDEBUG, can open the
program in a terminal emulator, feed scripted input lines and capture output.

Select a runtime either with --profile (see 'winerun config show') or with
--wine-path and --prefix.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "winerun %s\n  commit: %s\n  built:  %s\n  go:     %s\n", version, commit, date, runtime.Version())
	},
}

func init() {
	addRuntimeFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(execute(rootCmd))
}

// execute runs the command tree and maps errors to a process exit code.
// SIGINT and SIGTERM cancel the context, which kills a running wine child.
func execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
