package main

import (
	"github.com/spf13/cobra"

	"github.com/terrorizer1980/librarywine/pkg/wine"
)

var bootCmd = &cobra.Command{
	Use:   "boot <state>",
	Short: "Run wineboot in the prefix",
	Long: `Run wineboot with one of its session operations:

  init         - initialise or update the prefix
  update       - update the prefix configuration
  restart      - simulate a reboot
  shutdown     - simulate a shutdown
  end-session  - end the current session
  kill         - kill all processes in the prefix
  force        - force the operation for critical processes`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"end-session", "force", "init", "kill", "restart", "shutdown", "update"},
	RunE:      runBoot,
}

func init() {
	rootCmd.AddCommand(bootCmd)
}

func runBoot(cmd *cobra.Command, args []string) error {
	state, err := wine.ParseBootState(args[0])
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	res, err := s.exec.Boot(cmd.Context(), state)
	if err != nil {
		return &ExitError{Code: 1}
	}
	if res.ExitCode != 0 {
		return &ExitError{Code: res.ExitCode}
	}
	logger.Infof("wineboot %s finished in %s", state, res.Duration)
	return nil
}
