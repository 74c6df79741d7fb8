// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/paratools/taucmdr/pkg/constants"
)

// CommandSpec describes an external command invocation.
type CommandSpec struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the caller's.
	Dir string
	// Env entries are appended to the current process environment.
	Env map[string]string
	// Stdin is wired to the child process when non-nil.
	Stdin io.Reader
}

// EnvToSlice converts an environment map to KEY=VALUE form, sorted by
// key so invocations are reproducible.
func EnvToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func (spec CommandSpec) build(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), EnvToSlice(spec.Env)...)
	}
	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	}
	// On cancellation, interrupt first so builds can clean up; the force
	// kill follows after the grace period.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = constants.SubprocessGrace
	return cmd
}

// RunCommand runs the command, streaming its output to the given
// writers. Nil writers discard the corresponding stream.
func RunCommand(ctx context.Context, spec CommandSpec, stdout io.Writer, stderr io.Writer) error {
	cmd := spec.build(ctx)
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", spec.Name, err)
	}
	return nil
}

// RunCommandCapture runs the command and returns its stdout and stderr.
// The returned streams are populated even when the command fails, so
// callers can surface diagnostics.
func RunCommandCapture(ctx context.Context, spec CommandSpec) (string, string, error) {
	cmd := spec.build(ctx)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		err = fmt.Errorf("%s failed: %w", spec.Name, err)
	}
	return stdout.String(), stderr.String(), err
}

// ExitCode extracts the process exit status from an error returned by
// RunCommand, or -1 when the command never ran.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
