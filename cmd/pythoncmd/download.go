// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pythoncmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/interpreter"
	"github.com/paratools/taucmdr/pkg/prompts"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

var downloadForce bool

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download and install the bundled Python interpreter",
		Long: `Download the Miniconda installer for the resolved platform and
install it under the state dir in batch mode.

The installer script is cached in the source cache, so repeated runs
don't re-download it. An existing bundled interpreter is only replaced
with --force.`,
		Args: cobra.ExactArgs(0),
		RunE: runDownload,
	}
	cmd.Flags().BoolVar(&downloadForce, "force", false, "replace an existing bundled interpreter")
	return cmd
}

func runDownload(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	prefix := app.GetCondaDir()

	installerName, err := app.Platform.CondaInstaller(constants.CondaVersion)
	if err != nil {
		return err
	}

	if !downloadForce && utils.DirExists(prefix) && prompts.IsInteractive() {
		replace, err := app.Prompt.CaptureNoYes(fmt.Sprintf("Replace the existing bundled interpreter at %s?", prefix))
		if err != nil {
			return err
		}
		if !replace {
			ux.Logger.PrintToUser("Aborted")
			return nil
		}
		downloadForce = true
	}

	ux.Logger.PrintToUser("Installing %s into %s", installerName, prefix)

	err = interpreter.Bootstrap(ctx, app.GetDownloader(), interpreter.BootstrapOptions{
		Platform: app.Platform,
		CacheDir: app.GetSrcCacheDir(),
		Prefix:   prefix,
		Force:    downloadForce,
		Out:      ux.Logger.Writer(),
	})
	if err != nil {
		return err
	}

	// Probe the fresh install so a broken bundle fails loudly now.
	if interpreter.CondaPython(prefix) == "" {
		return fmt.Errorf("the installer finished but no python exists under %s", prefix)
	}
	info, err := interpreter.NewResolver("", prefix).Resolve(ctx)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Bundled interpreter ready: %s (%s)", info.Command, info.Version)
	return nil
}
