package wine

import (
	"os"
	"sort"
	"strings"
)

// Environment variables owned by the Runtime.
const (
	EnvPrefix = "WINEPREFIX"
	EnvDebug  = "WINEDEBUG"
)

// environ is the source of the inherited environment.
// It can be overridden in tests for injection.
var environ = os.Environ

// IsReservedEnv reports whether key names a variable the Runtime controls.
// The comparison ignores case.
func IsReservedEnv(key string) bool {
	return strings.EqualFold(key, EnvPrefix) || strings.EqualFold(key, EnvDebug)
}

// PrepareEnv builds the full environment slice for a wine process.
// It starts from the current process environment, sets WINEPREFIX and
// WINEDEBUG from rt, then applies overrides except reserved names.
// Overrides are applied in sorted key order so the result is deterministic.
func PrepareEnv(rt *Runtime, overrides map[string]string) []string {
	env := append([]string(nil), environ()...)

	env = setEnv(env, EnvPrefix, rt.PrefixPath())
	env = setEnv(env, EnvDebug, rt.Verbosity().WineDebug())

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if k == "" || IsReservedEnv(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = setEnv(env, k, overrides[k])
	}

	return env
}

// setEnv replaces every existing entry for key and appends key=value.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	out := env[:0]
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			continue
		}
		out = append(out, e)
	}
	return append(out, prefix+value)
}

// LookupEnv returns the value of key in env, using the last entry when the
// key repeats.
func LookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):], true
		}
	}
	return "", false
}
