// Package batch decodes TOML files listing several wine invocations to run
// against one runtime.
package batch

import (
	"bytes"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/terrorizer1980/librarywine/pkg/wine"
)

// Entry is one [[run]] table. Arguments is split with shell quoting rules
// and appended after Args.
type Entry struct {
	Command   string            `toml:"command"`
	Args      []string          `toml:"args"`
	Arguments string            `toml:"arguments"`
	Env       map[string]string `toml:"env"`
	Input     []string          `toml:"input"`
	Capture   bool              `toml:"capture"`
	Terminal  bool              `toml:"terminal"`
	WorkDir   string            `toml:"workdir"`
	Encoding  string            `toml:"encoding"`
}

// File is a decoded batch file.
type File struct {
	Concurrency int     `toml:"concurrency"`
	Runs        []Entry `toml:"run"`
}

// Load reads and decodes a batch file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read batch file %s", path)
	}
	return Parse(data)
}

// Parse decodes batch file contents. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode batch file")
	}
	if len(f.Runs) == 0 {
		return nil, errors.New("batch file has no [[run]] entries")
	}
	for i, r := range f.Runs {
		if r.Command == "" {
			return nil, errors.Errorf("run %d: command is required", i+1)
		}
	}
	return &f, nil
}

// Invocations converts every entry to a wine.Invocation.
func (f *File) Invocations() ([]wine.Invocation, error) {
	invs := make([]wine.Invocation, 0, len(f.Runs))
	for i, r := range f.Runs {
		inv, err := r.Invocation()
		if err != nil {
			return nil, errors.Wrapf(err, "run %d", i+1)
		}
		invs = append(invs, inv)
	}
	return invs, nil
}

// Invocation converts the entry to a wine.Invocation.
func (e Entry) Invocation() (wine.Invocation, error) {
	args := append([]string(nil), e.Args...)
	if e.Arguments != "" {
		extra, err := wine.ParseArguments(e.Arguments)
		if err != nil {
			return wine.Invocation{}, err
		}
		args = append(args, extra...)
	}
	if err := wine.ValidateEncoding(e.Encoding); err != nil {
		return wine.Invocation{}, err
	}

	return wine.Invocation{
		Command:     e.Command,
		Args:        args,
		Env:         e.Env,
		Input:       e.Input,
		Capture:     e.Capture,
		UseTerminal: e.Terminal,
		WorkDir:     e.WorkDir,
		Encoding:    e.Encoding,
	}, nil
}
