// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/harness"
	"github.com/paratools/taucmdr/pkg/interpreter"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts",
		Long: `Remove the build directory.

Cleaning needs no interpreter and succeeds when there is nothing to
remove, so it can run repeatedly.`,
		Args: cobra.ExactArgs(0),
		RunE: runClean,
	}
}

func runClean(*cobra.Command, []string) error {
	h := harness.New(app, interpreter.Info{}, "")
	if err := h.Clean(); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Removed build directory %s", app.GetBuildDir())
	return nil
}
