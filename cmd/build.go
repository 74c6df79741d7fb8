// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/harness"
	"github.com/paratools/taucmdr/pkg/interpreter"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

var srcDirFlag string

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build TAU Commander from a source tree",
		Long: `Build TAU Commander from a source tree.

The source tree must contain a setup.py. Build artifacts go to the
build directory under the state dir, never into the source tree, so
re-running after a failed build starts clean.`,
		Args: cobra.ExactArgs(0),
		RunE: runBuild,
	}
	cmd.Flags().StringVar(&srcDirFlag, "src", "", "source tree to build (default is the working directory)")
	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	h, err := newHarness(cmd.Context())
	if err != nil {
		return err
	}
	if err := h.Build(cmd.Context()); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Build complete (artifacts in %s)", app.GetBuildDir())
	return nil
}

// newHarness resolves the interpreter and the source tree a build or
// install run needs. Interpreter guards fire here, before any child
// process starts.
func newHarness(ctx context.Context) (*harness.Harness, error) {
	srcDir, err := resolveSrcDir()
	if err != nil {
		return nil, err
	}
	interp, err := resolveInterpreter(ctx)
	if err != nil {
		return nil, err
	}
	return harness.New(app, interp, srcDir), nil
}

func resolveSrcDir() (string, error) {
	if srcDirFlag != "" {
		return utils.ExpandHome(srcDirFlag), nil
	}
	return os.Getwd()
}

func resolveInterpreter(ctx context.Context) (interpreter.Info, error) {
	condaPrefix := ""
	if app.Platform.CondaSupported() {
		condaPrefix = app.GetCondaDir()
	}
	resolver := interpreter.NewResolver(viper.GetString(constants.ConfigPythonKey), condaPrefix)
	info, err := resolver.Resolve(ctx)
	if err != nil {
		return interpreter.Info{}, err
	}
	app.Log.Infof("using %s interpreter %s (%s)", info.Source, info.Command, info.Version)
	return info, nil
}
