// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package interpreter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/download"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/utils"
)

// BootstrapOptions control a bundled interpreter installation.
type BootstrapOptions struct {
	// Platform the installer is fetched for.
	Platform platform.Platform
	// Version of the Miniconda distribution, constants.CondaVersion
	// unless overridden.
	Version string
	// CacheDir receives the downloaded installer script.
	CacheDir string
	// Prefix is the directory the interpreter is installed into.
	Prefix string
	// Force replaces an existing installation under Prefix.
	Force bool
	// Out receives the installer's output.
	Out io.Writer
}

// Bootstrap downloads the Miniconda installer for the platform and runs
// it in batch mode into the prefix. The installer script is kept in the
// cache dir so repeated runs don't re-download it.
func Bootstrap(ctx context.Context, fetcher download.Fetcher, opts BootstrapOptions) error {
	if opts.Version == "" {
		opts.Version = constants.CondaVersion
	}
	installerName, err := opts.Platform.CondaInstaller(opts.Version)
	if err != nil {
		return err
	}

	occupied, err := utils.NonEmptyDirectory(opts.Prefix)
	if err != nil {
		return err
	}
	if occupied {
		if !opts.Force {
			return fmt.Errorf("a bundled interpreter already exists at %s (use --force to replace it)", opts.Prefix)
		}
		if err := os.RemoveAll(opts.Prefix); err != nil {
			return fmt.Errorf("failed to remove existing interpreter at %s: %w", opts.Prefix, err)
		}
	}

	installerPath := filepath.Join(opts.CacheDir, installerName)
	if !utils.FileExists(installerPath) {
		url := constants.CondaDownloadBase + "/" + installerName
		if err := download.Get(ctx, fetcher, url, installerPath, ""); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Prefix), constants.DefaultPerms755); err != nil {
		return err
	}
	spec := utils.CommandSpec{
		Name: "bash",
		Args: []string{installerPath, "-b", "-p", opts.Prefix},
	}
	if err := utils.RunCommand(ctx, spec, opts.Out, opts.Out); err != nil {
		return fmt.Errorf("the interpreter installer failed: %w", err)
	}
	return nil
}
