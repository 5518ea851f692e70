// Package config loads named runtime profiles for the winerun CLI using
// Viper with TOML as the file format.
//
// The file is read from $XDG_CONFIG_HOME/librarywine/config.toml (or
// ~/.config/librarywine/config.toml) unless an explicit path is given.
// Top-level keys can be overridden with LIBRARYWINE_* environment variables.
// The file is never written back.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/terrorizer1980/librarywine/pkg/wine"
)

const (
	// AppName is the application name used for the config directory.
	AppName = "librarywine"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix prefixes environment overrides, e.g. LIBRARYWINE_LOG_LEVEL.
	EnvPrefix = "LIBRARYWINE"
)

// Profile is one named runtime configuration.
type Profile struct {
	InstallPath string `mapstructure:"install_path" toml:"install_path"`
	PrefixPath  string `mapstructure:"prefix_path" toml:"prefix_path"`
	Verbosity   string `mapstructure:"verbosity" toml:"verbosity,omitempty"`
	Terminal    string `mapstructure:"terminal" toml:"terminal,omitempty"`
	StoreLayout bool   `mapstructure:"store_layout" toml:"store_layout,omitempty"`
	// Env holds KEY=VALUE entries. A list keeps the key case intact, which a
	// table would not survive through Viper.
	Env []string `mapstructure:"env" toml:"env,omitempty"`
}

// Config is the whole configuration file.
type Config struct {
	LogLevel       string             `mapstructure:"log_level" toml:"log_level"`
	DefaultProfile string             `mapstructure:"default_profile" toml:"default_profile,omitempty"`
	Profiles       map[string]Profile `mapstructure:"profiles" toml:"profiles,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Profiles: map[string]Profile{},
	}
}

// configDirOverride lets tests redirect the default lookup.
var configDirOverride string

// Dir returns the directory searched for the config file.
func Dir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the configuration. An explicit path must exist; without one a
// missing default file yields DefaultConfig.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("default_profile", defaults.DefaultProfile)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(ConfigFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "failed to read config %s", displayPath(path))
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "file"
	}
	return path
}

// Profile returns the named profile, or the default profile when name is
// empty. Profile names are case-insensitive.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return Profile{}, errors.New("no profile selected and no default_profile configured")
	}
	p, ok := c.Profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, errors.Errorf("unknown profile %q (available: %s)", name, strings.Join(c.ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for n := range c.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EnvMap parses the profile's KEY=VALUE entries.
func (p Profile) EnvMap() (map[string]string, error) {
	env := make(map[string]string, len(p.Env))
	for _, e := range p.Env {
		k, val, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid env entry %q, expected KEY=VALUE", e)
		}
		env[k] = val
	}
	return env, nil
}

// Runtime validates the profile and builds the wine runtime and terminal it
// describes.
func (p Profile) Runtime(extra ...wine.Option) (*wine.Runtime, wine.Terminal, error) {
	verbosity, err := wine.ParseVerbosity(p.Verbosity)
	if err != nil {
		return nil, wine.TerminalNone, err
	}
	term, err := wine.ParseTerminal(p.Terminal)
	if err != nil {
		return nil, wine.TerminalNone, err
	}

	install, err := ExpandPath(p.InstallPath)
	if err != nil {
		return nil, wine.TerminalNone, errors.Wrap(err, "install_path")
	}
	prefix, err := ExpandPath(p.PrefixPath)
	if err != nil {
		return nil, wine.TerminalNone, errors.Wrap(err, "prefix_path")
	}

	opts := []wine.Option{wine.WithVerbosity(verbosity)}
	if p.StoreLayout {
		opts = append(opts, wine.WithStoreLayout())
	}
	opts = append(opts, extra...)

	rt, err := wine.NewRuntime(install, prefix, opts...)
	if err != nil {
		return nil, wine.TerminalNone, err
	}
	return rt, term, nil
}

// ExpandPath expands environment variables and a leading ~ and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is empty")
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %q", path)
	}
	return abs, nil
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	return out, nil
}
