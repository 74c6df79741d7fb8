// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package projectcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/storage"
)

var app *application.TauCmdr

func NewCmd(injectedApp *application.TauCmdr) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage experiment projects",
		Long: `Manage experiment projects.

A project is a .tau directory that owns experiment records. Commands
run inside a project use its records; outside a project, records live
at the user level.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	return cmd
}

// openRecords opens the records database records are read from and
// written to: the project level inside a project, else the user level.
func openRecords() (*storage.Database, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	hierarchy := storage.NewHierarchy(cwd, app.GetBaseDir(), app.GetSystemDir())
	return storage.OpenDatabase(hierarchy.RecordLevel().RecordsPath())
}
