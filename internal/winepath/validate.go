// Package winepath provides the filesystem checks used to decide whether a
// directory is a usable Wine installation or Wine prefix.
package winepath

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Layout names that mark a directory as an initialised prefix.
const (
	prefixDriveDir    = "drive_c"
	prefixSystemReg   = "system.reg"
	runtimeBinaryPath = "bin/wine64"
)

// statFunc and mkdirAll are the filesystem hooks used by the validators.
// They can be overridden in tests for injection.
var (
	statFunc  = os.Stat
	readDir   = os.ReadDir
	mkdirAll  = os.MkdirAll
	prefixDir = fs.FileMode(0o755)
)

// Validator is the pair of predicates consumed by runtime construction.
type Validator interface {
	ValidateRuntimePath(path string) bool
	ValidatePrefixPath(path string) bool
}

// FSValidator checks paths against the real filesystem.
type FSValidator struct{}

// Default is the validator used when none is supplied.
var Default Validator = FSValidator{}

// ValidateRuntimePath reports whether path is an absolute directory holding
// an executable bin/wine64.
func (FSValidator) ValidateRuntimePath(path string) bool {
	return ValidateRuntimePath(path)
}

// ValidatePrefixPath reports whether path is a usable prefix, creating it
// when it does not exist yet.
func (FSValidator) ValidatePrefixPath(path string) bool {
	return ValidatePrefixPath(path)
}

// ValidateRuntimePath reports whether path looks like a Wine installation.
func ValidateRuntimePath(path string) bool {
	if path == "" || !filepath.IsAbs(path) {
		return false
	}
	if !isDir(path) {
		return false
	}

	info, err := statFunc(filepath.Join(path, runtimeBinaryPath))
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

// ValidatePrefixPath accepts an existing prefix, an existing empty directory
// (wineboot has not populated it yet) or a path that does not exist, which is
// created. Any other existing path is rejected.
func ValidatePrefixPath(path string) bool {
	if path == "" || !filepath.IsAbs(path) {
		return false
	}

	info, err := statFunc(path)
	if errors.Is(err, fs.ErrNotExist) {
		return mkdirAll(path, prefixDir) == nil
	}
	if err != nil || !info.IsDir() {
		return false
	}

	entries, err := readDir(path)
	if err != nil {
		return false
	}
	if len(entries) == 0 {
		return true
	}
	return isDir(filepath.Join(path, prefixDriveDir)) || exists(filepath.Join(path, prefixSystemReg))
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	return isDir(path)
}

func isDir(path string) bool {
	info, err := statFunc(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := statFunc(path)
	return err == nil
}
