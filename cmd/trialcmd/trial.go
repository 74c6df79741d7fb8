// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trialcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/storage"
)

var app *application.TauCmdr

// NewCmd returns the command group that records and replays trials,
// individual runs of an application under a target's environment.
func NewCmd(injectedApp *application.TauCmdr) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Run programs and keep a record of every run",
		Long: `The trial command suite runs a program with the runtime environment
of the installed performance tools, captures its output to a log and
records the run (command, duration, exit code) for later inspection.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp

	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	return cmd
}

// recordLevel locates the storage level trial records and logs live at.
func recordLevel() (storage.Level, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return storage.Level{}, err
	}
	return storage.NewHierarchy(cwd, app.GetBaseDir(), app.GetSystemDir()).RecordLevel(), nil
}

// trialKey formats trial numbers so bucket key order matches numeric
// order.
func trialKey(number int) string {
	return fmt.Sprintf("%04d", number)
}
