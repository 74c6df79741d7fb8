// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package targetcmd

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
		Use:   "target",
		Short: "Describe the machines experiments run on",
		Long: `Describe the machines experiments run on.

A target names a host platform and the compiler family performance
tools are built with on it.`,
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
	cmd.AddCommand(newDeleteCmd())
	return cmd
}

func openRecords() (*storage.Database, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	hierarchy := storage.NewHierarchy(cwd, app.GetBaseDir(), app.GetSystemDir())
	return storage.OpenDatabase(hierarchy.RecordLevel().RecordsPath())
}
