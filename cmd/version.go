// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/kardianos/osext"
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and platform information",
		Args:  cobra.ExactArgs(0),
		RunE:  runVersion,
	}
}

func runVersion(*cobra.Command, []string) error {
	ux.Logger.PrintToUser("taucmdr version %s", app.GetVersion())
	ux.Logger.PrintToUser("platform: %s", app.Platform)
	if folder, err := osext.ExecutableFolder(); err == nil {
		ux.Logger.PrintToUser("executable dir: %s", folder)
	}
	ux.Logger.PrintToUser("state dir: %s", app.GetBaseDir())
	ux.Logger.PrintToUser("install prefix: %s", app.GetInstallDir())
	if receipt, err := app.LoadReceipt(); err == nil {
		ux.Logger.PrintToUser("installed: version %s on %s (%s %s, %s interpreter)",
			receipt.Version,
			receipt.InstalledAt.Format(constants.TimeParseLayout),
			receipt.OS, receipt.Arch, receipt.InterpreterSource)
	} else {
		ux.Logger.PrintToUser("installed: no (run 'taucmdr install')")
	}
	return nil
}
