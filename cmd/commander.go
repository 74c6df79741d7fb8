// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newCommanderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commander [-- jupyter-lab args]",
		Short: "Launch the TAU Commander analysis environment",
		Long: `Launch the TAU Commander analysis environment in JupyterLab.

jupyter-lab is looked up next to the resolved Python interpreter
first, then on PATH. The installed TAU Commander packages directory is
put on PYTHONPATH so the analysis notebooks can import them.`,
		RunE: runCommander,
	}
}

func runCommander(cmd *cobra.Command, args []string) error {
	interp, err := resolveInterpreter(cmd.Context())
	if err != nil {
		return err
	}

	jupyter := filepath.Join(filepath.Dir(interp.Command), "jupyter-lab")
	if !utils.FileExists(jupyter) {
		jupyter, err = exec.LookPath("jupyter-lab")
		if err != nil {
			return fmt.Errorf("jupyter-lab not found next to %s or on PATH (install it with '%s -m pip install jupyterlab')",
				interp.Command, interp.Command)
		}
	}

	spec := utils.CommandSpec{
		Name: jupyter,
		Args: args,
		Env: map[string]string{
			"PYTHONPATH":           filepath.Join(app.GetInstallDir(), "packages"),
			"BOKEH_LOG_LEVEL":      "warn",
			"BOKEH_PY_LOG_LEVEL":   "warn",
			"ANSI_COLORS_DISABLED": "1",
		},
		Stdin: os.Stdin,
	}
	ux.Logger.PrintToUser("Launching %s", jupyter)
	return utils.RunCommand(cmd.Context(), spec, os.Stdout, os.Stderr)
}
