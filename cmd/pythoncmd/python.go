// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pythoncmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/interpreter"
)

var app *application.TauCmdr

func NewCmd(injectedApp *application.TauCmdr) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "python",
		Short: "Inspect or provision the Python interpreter",
		Long: `Inspect or provision the Python interpreter TAU Commander builds with.

Candidates are probed in preference order: the configured command
(python.command / TAUCMDR_PYTHON), the bundled interpreter under the
state dir, then python3 and python on PATH. A candidate is usable when
it executes, meets the minimum version, and can import setuptools.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newDownloadCmd())
	return cmd
}

// newResolver builds the resolver for the current platform. Platforms
// without a Miniconda distribution skip the bundled candidate.
func newResolver() *interpreter.Resolver {
	condaPrefix := ""
	if app.Platform.CondaSupported() {
		condaPrefix = app.GetCondaDir()
	}
	return interpreter.NewResolver(viper.GetString(constants.ConfigPythonKey), condaPrefix)
}
