// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/ux"
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Build and install TAU Commander",
		Long: `Build TAU Commander and install it into the installation prefix.

The pipeline runs setup.py build, setup.py install --prefix, the
post-install configuration script in minimal mode, and finally widens
permissions so every user can read the install tree. The first failing
step aborts the run. Re-running with the same OS, architecture and
prefix settings resolves the same paths.`,
		Args: cobra.ExactArgs(0),
		RunE: runInstall,
	}
	cmd.Flags().StringVar(&srcDirFlag, "src", "", "source tree to build (default is the working directory)")
	return cmd
}

func runInstall(cmd *cobra.Command, _ []string) error {
	h, err := newHarness(cmd.Context())
	if err != nil {
		return err
	}
	if err := h.Install(cmd.Context()); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("TAU Commander %s installed at %s", app.GetVersion(), app.GetInstallDir())
	return nil
}
