// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package interpreter resolves a usable Python interpreter, preferring
// an explicitly configured command, then the bundled Miniconda
// installation, then whatever the PATH offers.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/utils"
)

var (
	// ErrNoUsableInterpreter means no candidate both executed and met
	// the version floor.
	ErrNoUsableInterpreter = errors.New("no usable Python interpreter found")
	// ErrPackagingLibMissing means an interpreter works but cannot
	// import the packaging library needed to drive builds.
	ErrPackagingLibMissing = errors.New("packaging library (setuptools) is missing")
)

// Source records where a candidate interpreter came from.
type Source string

const (
	SourceConfig Source = "config"
	SourceConda  Source = "conda"
	SourceSystem Source = "system"
)

// Info describes the interpreter a run will use.
type Info struct {
	Command string `json:"command"`
	Version string `json:"version"`
	Source  Source `json:"source"`
}

// Candidate is the probe verdict for one interpreter command.
type Candidate struct {
	Command string
	Source  Source
	Version string
	// Err is nil when the candidate is usable.
	Err error
}

type probeRunner func(ctx context.Context, name string, args ...string) (string, string, error)

func defaultProbeRunner(ctx context.Context, name string, args ...string) (string, string, error) {
	return utils.RunCommandCapture(ctx, utils.CommandSpec{Name: name, Args: args})
}

// Resolver probes interpreter candidates in preference order.
type Resolver struct {
	// Configured is the python.command config override, empty when unset.
	Configured string
	// CondaPrefix is the bundled interpreter prefix, empty when the
	// platform has no bundled distribution.
	CondaPrefix string

	run probeRunner
}

func NewResolver(configured string, condaPrefix string) *Resolver {
	return &Resolver{
		Configured:  configured,
		CondaPrefix: condaPrefix,
		run:         defaultProbeRunner,
	}
}

// CondaPython returns the bundled interpreter path under prefix, or ""
// when none is installed there.
func CondaPython(prefix string) string {
	if prefix == "" {
		return ""
	}
	for _, name := range []string{"python3", "python"} {
		candidate := filepath.Join(prefix, "bin", name)
		if utils.FileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// candidates lists the commands to probe, most preferred first.
func (r *Resolver) candidates() []Candidate {
	var out []Candidate
	if r.Configured != "" {
		out = append(out, Candidate{Command: r.Configured, Source: SourceConfig})
	}
	if bundled := CondaPython(r.CondaPrefix); bundled != "" {
		out = append(out, Candidate{Command: bundled, Source: SourceConda})
	}
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			out = append(out, Candidate{Command: path, Source: SourceSystem})
		}
	}
	return out
}

// Probe checks every candidate and returns their verdicts in
// preference order.
func (r *Resolver) Probe(ctx context.Context) []Candidate {
	candidates := r.candidates()
	for i := range candidates {
		candidates[i] = r.check(ctx, candidates[i])
	}
	return candidates
}

// Resolve returns the first usable interpreter. When every candidate
// fails, the error distinguishes a missing packaging library from a
// missing interpreter so callers can print the right remediation.
func (r *Resolver) Resolve(ctx context.Context) (Info, error) {
	probed := r.Probe(ctx)
	packagingOnly := false
	for _, c := range probed {
		if c.Err == nil {
			return Info{Command: c.Command, Version: c.Version, Source: c.Source}, nil
		}
		if errors.Is(c.Err, ErrPackagingLibMissing) {
			packagingOnly = true
		}
	}
	if packagingOnly {
		return Info{}, fmt.Errorf("%w: install it with 'python3 -m pip install setuptools' or run 'taucmdr python download'",
			ErrPackagingLibMissing)
	}
	checked := make([]string, 0, len(probed))
	for _, c := range probed {
		checked = append(checked, c.Command)
	}
	if len(checked) == 0 {
		return Info{}, fmt.Errorf("%w: nothing to probe; run 'taucmdr python download' to install the bundled interpreter",
			ErrNoUsableInterpreter)
	}
	return Info{}, fmt.Errorf("%w (checked %s); run 'taucmdr python download' to install the bundled interpreter",
		ErrNoUsableInterpreter, strings.Join(checked, ", "))
}

// check fills in the candidate's version and usability verdict.
func (r *Resolver) check(ctx context.Context, c Candidate) Candidate {
	stdout, _, err := r.run(ctx, c.Command, "-c", "import sys; print('.'.join(map(str, sys.version_info[:3])))")
	if err != nil {
		c.Err = fmt.Errorf("%s does not execute: %w", c.Command, err)
		return c
	}
	version := utils.FirstLine(utils.RemoveLineCleanChars(stdout))
	if !semver.IsValid(normalizeVersion(version)) {
		c.Err = fmt.Errorf("%s reported an unparseable version %q", c.Command, version)
		return c
	}
	c.Version = version
	if semver.Compare(normalizeVersion(version), normalizeVersion(constants.MinPythonVersion)) < 0 {
		c.Err = fmt.Errorf("%s is version %s, older than the minimum %s", c.Command, version, constants.MinPythonVersion)
		return c
	}

	if _, _, err := r.run(ctx, c.Command, "-c", "import "+constants.PackagingModule); err != nil {
		c.Err = fmt.Errorf("%s cannot import %s: %w", c.Command, constants.PackagingModule, ErrPackagingLibMissing)
		return c
	}
	return c
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
