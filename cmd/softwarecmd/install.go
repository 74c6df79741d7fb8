// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package softwarecmd

import (
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/download"
	"github.com/paratools/taucmdr/pkg/prompts"
	"github.com/paratools/taucmdr/pkg/software"
)

var (
	forceReinstall bool
	sourceOverride string
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <package>",
		Short: "Build and install a performance-tool package",
		Long: `Build a package and everything it depends on.

Dependencies install first. Source archives of all pending packages are
fetched up front; an already verified installation is never rebuilt
unless --force-reinstall names it. --source accepts an archive URL, a
local archive path, or the directory of an existing installation to
adopt.`,
		Args: cobra.ExactArgs(1),
		RunE: runInstall,
	}
	cmd.Flags().BoolVar(&forceReinstall, "force-reinstall", false, "rebuild even when the package verifies")
	cmd.Flags().StringVar(&sourceOverride, "source", "", "source archive URL or path, or an existing installation directory")
	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	if sourceOverride != "" {
		// Catch malformed URLs before any build work starts. Local paths
		// and git sources have their own checks downstream.
		if local, _ := download.LocalPath(sourceOverride); !local && !software.IsGitSource(sourceOverride) {
			if err := prompts.ValidateURL(sourceOverride); err != nil {
				return err
			}
		}
	}
	mgr, err := newManager()
	if err != nil {
		return err
	}
	return mgr.Install(cmd.Context(), software.InstallRequest{
		Name:      args[0],
		Source:    sourceOverride,
		Force:     forceReinstall,
		BuildRoot: app.GetBuildDir(),
	})
}
