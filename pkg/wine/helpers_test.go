package wine

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

// stubValidator accepts or rejects every path and records what it saw.
type stubValidator struct {
	runtimeOK bool
	prefixOK  bool

	runtimeCalls []string
	prefixCalls  []string
}

func (s *stubValidator) ValidateRuntimePath(path string) bool {
	s.runtimeCalls = append(s.runtimeCalls, path)
	return s.runtimeOK
}

func (s *stubValidator) ValidatePrefixPath(path string) bool {
	s.prefixCalls = append(s.prefixCalls, path)
	return s.prefixOK
}

// newStubRuntime builds a Runtime without touching the filesystem.
func newStubRuntime(t *testing.T, install, prefix string, v Verbosity) *Runtime {
	t.Helper()
	rt, err := NewRuntime(install, prefix,
		WithVerbosity(v),
		WithValidator(&stubValidator{runtimeOK: true, prefixOK: true}),
	)
	require.NoError(t, err)
	return rt
}

// quietLogger discards executor diagnostics.
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// makeFakeWine creates an installation whose bin/wine64 is the given shell
// script, plus an empty prefix directory.
func makeFakeWine(t *testing.T, script string) (install, prefix string) {
	t.Helper()
	install = t.TempDir()
	prefix = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(install, "bin"), 0o755))
	body := "#!/bin/sh\n" + script + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(install, "bin", "wine64"), []byte(body), 0o755))
	return install, prefix
}

// withEnviron replaces the inherited environment for the duration of a test.
func withEnviron(t *testing.T, env []string) {
	t.Helper()
	environ = func() []string { return env }
	t.Cleanup(func() { environ = os.Environ })
}
