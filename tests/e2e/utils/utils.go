// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package utils carries the helpers the extended test suites share:
// locating the built binary and running it with captured output.
package utils

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

const commandTimeout = 2 * time.Minute

// ExtendedTestsEnabled reports whether the suites that drive a built
// taucmdr binary should run at all.
func ExtendedTestsEnabled() bool {
	return os.Getenv("RUN_EXTENDED_TESTS") == "true"
}

// Binary locates the taucmdr binary under test: TAUCMDR_E2E_BIN wins,
// PATH is the fallback.
func Binary() (string, error) {
	if bin := os.Getenv("TAUCMDR_E2E_BIN"); bin != "" {
		return bin, nil
	}
	bin, err := exec.LookPath("taucmdr")
	if err != nil {
		return "", errors.New("taucmdr binary not found, set TAUCMDR_E2E_BIN")
	}
	return bin, nil
}

// Run executes the binary with the given arguments and returns its
// combined output.
func Run(bin string, args ...string) (string, error) {
	return RunIn("", bin, args...)
}

// RunIn is Run with a working directory.
func RunIn(dir string, bin string, args ...string) (string, error) {
	return run(dir, nil, bin, args...)
}

// RunWithEnv is Run with extra KEY=VALUE entries appended to the
// environment.
func RunWithEnv(env []string, bin string, args ...string) (string, error) {
	return run("", env, bin, args...)
}

func run(dir string, extraEnv []string, bin string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	if dir != "" {
		cmd.Dir = dir
	}
	output, err := cmd.CombinedOutput()
	return string(output), err
}
