package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/terrorizer1980/librarywine/internal/batch"
	"github.com/terrorizer1980/librarywine/pkg/wine"
	"github.com/terrorizer1980/librarywine/pkg/workerpool"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <file.toml>",
	Short: "Run every [[run]] entry of a batch file against one runtime",
	Long: `Run the invocations listed in a TOML batch file. Entries run
concurrently up to --concurrency (or the file's concurrency key); a failed
entry is reported and the rest still run.

Example file:

  concurrency = 2

  [[run]]
  command = "wineboot"
  args = ["--init"]

  [[run]]
  command = "msiexec"
  arguments = "/i 'C:\\setup files\\app.msi' /qn"
  input = ["y"]
  capture = true`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent processes (default: file value, then 1)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := batch.Load(args[0])
	if err != nil {
		return err
	}
	invs, err := f.Invocations()
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	for i := range invs {
		invs[i].Env = s.mergeEnv(invs[i].Env)
	}

	concurrency := f.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = batchConcurrency
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	results := workerpool.Run(cmd.Context(), concurrency, s.exec.Execute, invs)

	failed := 0
	out := cmd.OutOrStdout()
	for _, r := range results {
		inv := r.Job.Invocation
		status := reportStatus(r.Result, r.Err)
		if status != "ok" {
			failed++
		}
		fmt.Fprintf(out, "[%d] %s: %s (%s)\n", r.Job.Index+1, inv.Command, status, r.Result.Duration.Round(time.Millisecond))
		if r.Result.Captured && r.Result.Output != "" {
			fmt.Fprintln(out, r.Result.Output)
		}
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d runs failed", failed, len(results))}
	}
	return nil
}

func reportStatus(res wine.Result, err error) string {
	switch {
	case err != nil:
		return "failed: " + err.Error()
	case res.ExitCode != 0:
		return fmt.Sprintf("exit code %d", res.ExitCode)
	default:
		return "ok"
	}
}
