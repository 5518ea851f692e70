package wine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReservedEnv(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"WINEPREFIX", true},
		{"wineprefix", true},
		{"WinePrefix", true},
		{"WINEDEBUG", true},
		{"winedebug", true},
		{"WINEDLLOVERRIDES", false},
		{"PATH", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReservedEnv(tt.key))
		})
	}
}

func TestPrepareEnv_SetsRuntimeVariables(t *testing.T) {
	withEnviron(t, []string{"HOME=/home/u", "PATH=/usr/bin"})
	rt := newStubRuntime(t, "/opt/wine", "/home/u/.wine-app", VerbosityFull)

	env := PrepareEnv(rt, nil)

	prefix, ok := LookupEnv(env, EnvPrefix)
	require.True(t, ok)
	assert.Equal(t, "/home/u/.wine-app", prefix)

	debug, ok := LookupEnv(env, EnvDebug)
	require.True(t, ok)
	assert.Equal(t, "+all", debug)

	assert.Contains(t, env, "HOME=/home/u")
	assert.Contains(t, env, "PATH=/usr/bin")
}

func TestPrepareEnv_ReservedOverridesDropped(t *testing.T) {
	withEnviron(t, []string{"PATH=/usr/bin"})
	rt := newStubRuntime(t, "/opt/wine", "/pfx", VerbositySilent)

	overrides := map[string]string{
		"WINEPREFIX": "/evil",
		"wineprefix": "/evil-lower",
		"WineDebug":  "+relay",
		"WINEDEBUG":  "+all",
		"MY_VAR":     "hello",
	}
	env := PrepareEnv(rt, overrides)

	prefix, _ := LookupEnv(env, EnvPrefix)
	assert.Equal(t, "/pfx", prefix)
	debug, _ := LookupEnv(env, EnvDebug)
	assert.Equal(t, "-all", debug)

	for _, e := range env {
		key := strings.SplitN(e, "=", 2)[0]
		if IsReservedEnv(key) {
			assert.Contains(t, []string{"WINEPREFIX=/pfx", "WINEDEBUG=-all"}, e)
		}
	}
	assert.Contains(t, env, "MY_VAR=hello")
}

func TestPrepareEnv_InheritedRuntimeVariablesReplaced(t *testing.T) {
	withEnviron(t, []string{"WINEPREFIX=/old", "WINEDEBUG=+relay", "LANG=C"})
	rt := newStubRuntime(t, "/opt/wine", "/new", VerbosityFixmeOnly)

	env := PrepareEnv(rt, nil)

	assert.Equal(t, []string{"LANG=C", "WINEPREFIX=/new", "WINEDEBUG=fixme-all"}, env)
}

func TestPrepareEnv_OverridesReplaceInherited(t *testing.T) {
	withEnviron(t, []string{"LANG=C", "DISPLAY=:0"})
	rt := newStubRuntime(t, "/opt/wine", "/pfx", VerbositySilent)

	env := PrepareEnv(rt, map[string]string{"LANG": "ja_JP.UTF-8", "B": "2", "A": "1"})

	lang, _ := LookupEnv(env, "LANG")
	assert.Equal(t, "ja_JP.UTF-8", lang)
	assert.Equal(t, []string{"DISPLAY=:0", "WINEPREFIX=/pfx", "WINEDEBUG=-all", "A=1", "B=2", "LANG=ja_JP.UTF-8"}, env)
}

func TestLookupEnv_LastWins(t *testing.T) {
	env := []string{"A=1", "B=2", "A=3"}

	v, ok := LookupEnv(env, "A")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = LookupEnv(env, "C")
	assert.False(t, ok)
}
