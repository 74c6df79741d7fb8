// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package harness drives the TAU Commander installation pipeline:
// setup.py build, setup.py install, post-install configuration and
// permission fixup. Every step runs synchronously and the first
// failure aborts the run.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/interpreter"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

type streamRunner func(ctx context.Context, spec utils.CommandSpec, stdout io.Writer, stderr io.Writer) error

// Harness runs the install pipeline for one resolved interpreter and
// one source tree.
type Harness struct {
	app     *application.TauCmdr
	interp  interpreter.Info
	srcDir  string
	verbose bool

	run streamRunner
}

func New(app *application.TauCmdr, interp interpreter.Info, srcDir string) *Harness {
	return &Harness{
		app:     app,
		interp:  interp,
		srcDir:  srcDir,
		verbose: app.Conf.GetConfigBoolValue(constants.ConfigVerboseKey),
		run:     utils.RunCommand,
	}
}

// runLogged executes one child process. Output is always captured into
// the log; verbose runs additionally echo it to the console.
func (h *Harness) runLogged(ctx context.Context, spec utils.CommandSpec) error {
	var stdoutBuf, stderrBuf bytes.Buffer
	var stdout io.Writer = &stdoutBuf
	var stderr io.Writer = &stderrBuf
	if h.verbose {
		stdout = io.MultiWriter(ux.Logger.Writer(), &stdoutBuf)
		stderr = io.MultiWriter(ux.Logger.Writer(), &stderrBuf)
	}

	err := h.run(ctx, spec, stdout, stderr)
	h.app.Log.Debugf("%s %s:\n%s", spec.Name, strings.Join(spec.Args, " "), stdoutBuf.String())
	if stderrBuf.Len() > 0 {
		h.app.Log.Debugf("stderr:\n%s", stderrBuf.String())
	}
	if err != nil {
		detail := utils.FirstLine(strings.TrimSpace(stderrBuf.String()))
		if detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

func (h *Harness) setupScript() string {
	return filepath.Join(h.srcDir, constants.SetupScriptName)
}

// Build runs `<python> setup.py build` with the build directory under
// the state dir, so the source tree stays clean.
func (h *Harness) Build(ctx context.Context) error {
	if !utils.FileExists(h.setupScript()) {
		return fmt.Errorf("no %s in %q (run from the source tree)", constants.SetupScriptName, h.srcDir)
	}
	spec := utils.CommandSpec{
		Name: h.interp.Command,
		Args: []string{constants.SetupScriptName, "build", "--build-base", h.app.GetBuildDir()},
		Dir:  h.srcDir,
	}
	if err := h.runLogged(ctx, spec); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

// InstallTree runs `<python> setup.py install --prefix=<installdir>`.
func (h *Harness) InstallTree(ctx context.Context) error {
	spec := utils.CommandSpec{
		Name: h.interp.Command,
		Args: []string{constants.SetupScriptName, "install", "--prefix=" + h.app.GetInstallDir()},
		Dir:  h.srcDir,
	}
	if err := h.runLogged(ctx, spec); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	return nil
}

// PostInstallConfigure runs the freshly installed system_configure
// script in minimal mode.
func (h *Harness) PostInstallConfigure(ctx context.Context) error {
	script := filepath.Join(h.app.GetInstallDir(), "bin", constants.PostInstallScript)
	if !utils.FileExists(script) {
		return fmt.Errorf("%q is missing, the install tree looks incomplete", script)
	}
	args := []string{constants.PostInstallMinimal}
	if h.verbose {
		args = append(args, "--verbose")
	}
	spec := utils.CommandSpec{
		Name: script,
		Args: args,
		Dir:  h.app.GetInstallDir(),
	}
	if err := h.runLogged(ctx, spec); err != nil {
		return fmt.Errorf("post-install configuration failed: %w", err)
	}
	return nil
}

// FixPermissions makes the install tree world readable, keeps execute
// bits and marks directories traversable, like chmod -R a+rX.
func (h *Harness) FixPermissions() error {
	return utils.ChmodRecursively(h.app.GetInstallDir())
}

// WriteReceipt records what this run resolved and installed.
func (h *Harness) WriteReceipt() error {
	receipt := &models.Receipt{
		OS:                 h.app.Platform.OS,
		Arch:               h.app.Platform.Arch,
		InstallDir:         h.app.GetInstallDir(),
		Interpreter:        h.interp.Command,
		InterpreterVersion: h.interp.Version,
		InterpreterSource:  string(h.interp.Source),
		InstalledAt:        time.Now().UTC(),
	}
	return h.app.WriteReceipt(receipt)
}

// Install runs the full pipeline: build, install into the prefix,
// post-install configuration, permission fixup, receipt.
func (h *Harness) Install(ctx context.Context) error {
	steps := []ux.Step{
		{Name: "Building TAU Commander", Run: func(func(string)) error { return h.Build(ctx) }},
		{Name: fmt.Sprintf("Installing into %s", h.app.GetInstallDir()), Run: func(func(string)) error { return h.InstallTree(ctx) }},
		{Name: "Configuring installation", Run: func(func(string)) error { return h.PostInstallConfigure(ctx) }},
		{Name: "Adjusting permissions", Run: func(func(string)) error { return h.FixPermissions() }},
		{Name: "Writing install receipt", Run: func(func(string)) error { return h.WriteReceipt() }},
	}
	return ux.Logger.RunSteps(steps)
}

// Clean removes the build directory. Removing a directory that does
// not exist succeeds, so clean is idempotent.
func (h *Harness) Clean() error {
	buildDir := h.app.GetBuildDir()
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("cannot remove %q: %w", buildDir, err)
	}
	return nil
}
