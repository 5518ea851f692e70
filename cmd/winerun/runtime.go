package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/terrorizer1980/librarywine/internal/config"
	"github.com/terrorizer1980/librarywine/pkg/wine"
)

var (
	// Flags shared by every subcommand.
	cfgFile       string
	profileName   string
	winePath      string
	prefixPath    string
	verbosityName string
	terminalName  string
	storeLayout   bool
	logLevel      string

	logger    *log.Logger
	loadedCfg *config.Config
)

func addRuntimeFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/librarywine/config.toml)")
	flags.StringVarP(&profileName, "profile", "p", "", "runtime profile from the config file")
	flags.StringVar(&winePath, "wine-path", "", "Wine installation directory (overrides --profile)")
	flags.StringVar(&prefixPath, "prefix", "", "Wine prefix directory, created if missing")
	flags.StringVar(&verbosityName, "verbosity", "", "debug verbosity: silent, warn-all, fixme-only, full")
	flags.StringVar(&terminalName, "terminal", "", "terminal emulator: none, xterm, konsole, gnome-terminal, xfce4-terminal, mate-terminal")
	flags.BoolVar(&storeLayout, "store-layout", false, "installation is a compatibility-tool bundle (dist/ or files/)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads the config file once per process.
func loadConfig() (*config.Config, error) {
	if loadedCfg != nil {
		return loadedCfg, nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	loadedCfg = cfg
	return cfg, nil
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "winerun"})

	name := logLevel
	if name == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name = cfg.LogLevel
	}

	level, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	logger.SetLevel(level)
	return nil
}

// selectedProfile resolves the runtime profile from flags and config.
// Explicit flags take precedence over profile values.
func selectedProfile(cmd *cobra.Command) (config.Profile, error) {
	var p config.Profile

	if winePath != "" {
		if prefixPath == "" {
			return p, fmt.Errorf("--prefix is required with --wine-path")
		}
		p = config.Profile{InstallPath: winePath, PrefixPath: prefixPath}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return p, err
		}
		if p, err = cfg.Profile(profileName); err != nil {
			return p, fmt.Errorf("%w (or pass --wine-path and --prefix)", err)
		}
		if prefixPath != "" {
			p.PrefixPath = prefixPath
		}
	}

	flags := cmd.Flags()
	if flags.Changed("verbosity") {
		p.Verbosity = verbosityName
	}
	if flags.Changed("terminal") {
		p.Terminal = terminalName
	}
	if flags.Changed("store-layout") {
		p.StoreLayout = storeLayout
	}
	return p, nil
}

// session is a constructed executor plus the profile's default environment.
type session struct {
	exec *wine.Executor
	env  map[string]string
}

func newSession(cmd *cobra.Command) (*session, error) {
	p, err := selectedProfile(cmd)
	if err != nil {
		return nil, err
	}

	env, err := p.EnvMap()
	if err != nil {
		return nil, err
	}

	rt, term, err := p.Runtime()
	if err != nil {
		return nil, err
	}
	logger.Debug("runtime ready", "install", rt.InstallPath(), "prefix", rt.PrefixPath(), "verbosity", rt.Verbosity(), "terminal", term)

	ex := wine.NewExecutor(rt,
		wine.WithLogger(logger),
		wine.WithTerminal(term),
		wine.WithStdin(cmd.InOrStdin()),
		wine.WithStdout(cmd.OutOrStdout()),
		wine.WithStderr(cmd.ErrOrStderr()),
	)
	return &session{exec: ex, env: env}, nil
}

// mergeEnv layers overrides on top of the profile environment.
func (s *session) mergeEnv(overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(s.env)+len(overrides))
	for k, v := range s.env {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
