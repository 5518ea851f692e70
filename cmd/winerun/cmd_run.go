package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/terrorizer1980/librarywine/pkg/wine"
)

var (
	// Flags for run and plan.
	envVars    []string
	envFile    string
	inputLines []string
	inputStdin bool
	capture    bool
	useTerm    bool
	workDir    string
	encoding   string
	argString  string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a program through wine",
	Long: `Run a program through wine in the selected prefix.

Arguments after the command are passed as separate argv elements; no shell
is involved. --arguments accepts a single string split with shell quoting.`,
	Example: `  winerun run -p notepad -- notepad.exe
  winerun run --wine-path /opt/wine --prefix ~/.wine-app --capture -- cmd /c ver
  winerun run -p setup --input y --input y -- msiexec /i 'C:\setup.msi'
  winerun run -p game --use-terminal --terminal xterm -- game.exe`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProgram,
}

var planCmd = &cobra.Command{
	Use:   "plan [flags] -- <command> [args...]",
	Short: "Print the command line and environment a run would use",
	Args:  cobra.MinimumNArgs(1),
	RunE:  planProgram,
}

func init() {
	for _, c := range []*cobra.Command{runCmd, planCmd} {
		c.Flags().StringArrayVarP(&envVars, "env", "e", nil, "set environment variable as KEY=VAL (repeatable)")
		c.Flags().StringVar(&envFile, "env-file", "", "read environment variables from a dotenv file")
		c.Flags().StringArrayVar(&inputLines, "input", nil, "line written to the program's stdin (repeatable)")
		c.Flags().BoolVar(&inputStdin, "input-stdin", false, "forward piped stdin lines as the input sequence")
		c.Flags().BoolVar(&capture, "capture", false, "print the program's captured output")
		c.Flags().BoolVar(&useTerm, "use-terminal", false, "open the program in the selected terminal emulator")
		c.Flags().StringVar(&workDir, "workdir", "", "working directory (default is the prefix)")
		c.Flags().StringVar(&encoding, "encoding", "", "output encoding: utf8, cp1252, utf16le, utf16be, auto")
		c.Flags().StringVar(&argString, "arguments", "", "extra arguments as one shell-quoted string")
	}
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
}

// buildInvocation turns positional arguments and flags into an Invocation.
func buildInvocation(cmd *cobra.Command, args []string, s *session) (wine.Invocation, error) {
	overrides, err := parseEnv(envVars, envFile)
	if err != nil {
		return wine.Invocation{}, err
	}

	cmdArgs := append([]string(nil), args[1:]...)
	if argString != "" {
		extra, err := wine.ParseArguments(argString)
		if err != nil {
			return wine.Invocation{}, err
		}
		cmdArgs = append(cmdArgs, extra...)
	}

	inv := wine.Invocation{
		Command:     args[0],
		Args:        cmdArgs,
		Env:         s.mergeEnv(overrides),
		Capture:     capture,
		UseTerminal: useTerm,
		WorkDir:     workDir,
		Encoding:    encoding,
	}

	if len(inputLines) > 0 {
		inv.Input = append([]string{}, inputLines...)
	}
	if inputStdin {
		if wine.IsTerminal(int(os.Stdin.Fd())) {
			return wine.Invocation{}, fmt.Errorf("--input-stdin needs piped input, stdin is a terminal")
		}
		lines, err := readLines(cmd.InOrStdin())
		if err != nil {
			return wine.Invocation{}, err
		}
		inv.Input = append(append([]string{}, inv.Input...), lines...)
	}

	return inv, nil
}

// parseEnv merges a dotenv file with repeatable KEY=VAL flags; flags win.
func parseEnv(pairs []string, file string) (map[string]string, error) {
	env := make(map[string]string)
	if file != "" {
		fromFile, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range fromFile {
			env[k] = v
		}
	}
	for _, e := range pairs {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid env format %q, expected KEY=VAL", e)
		}
		env[k] = v
	}
	for k := range env {
		if wine.IsReservedEnv(k) {
			logger.Warnf("ignoring %s: it is set from the runtime", k)
		}
	}
	return env, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return lines, nil
}

func runProgram(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	inv, err := buildInvocation(cmd, args, s)
	if err != nil {
		return err
	}

	res, err := s.exec.Execute(cmd.Context(), inv)
	if err != nil {
		// Already logged by the executor.
		return &ExitError{Code: 1}
	}

	if res.Captured && res.Output != "" {
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	logger.Debug("completed", "command", inv.Command, "exit", res.ExitCode, "duration", res.Duration)

	if res.ExitCode != 0 {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

func planProgram(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	inv, err := buildInvocation(cmd, args, s)
	if err != nil {
		return err
	}

	line := s.exec.Plan(inv)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "command: %s\n", line)
	fmt.Fprintf(out, "workdir: %s\n", line.Dir)
	for _, key := range []string{wine.EnvPrefix, wine.EnvDebug} {
		v, _ := wine.LookupEnv(line.Env, key)
		fmt.Fprintf(out, "env:     %s=%s\n", key, v)
	}
	keys := make([]string, 0, len(inv.Env))
	for k := range inv.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v, ok := wine.LookupEnv(line.Env, k); ok && !wine.IsReservedEnv(k) {
			fmt.Fprintf(out, "env:     %s=%s\n", k, v)
		}
	}
	if inv.Input != nil {
		fmt.Fprintf(out, "input:   %d line(s)\n", len(inv.Input))
	}
	return nil
}
