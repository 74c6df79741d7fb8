// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package applicationcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/storage"
)

var app *application.TauCmdr

// NewCmd returns the command group that manages application records,
// the programs whose runs TAU Commander measures.
func NewCmd(injectedApp *application.TauCmdr) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "application",
		Short: "Describe the programs you want to measure",
		Long: `The application command suite records the programs under study and
the parallelism features (OpenMP, MPI) that shape how their trials
are configured.`,
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
	level := storage.NewHierarchy(cwd, app.GetBaseDir(), app.GetSystemDir()).RecordLevel()
	return storage.OpenDatabase(level.RecordsPath())
}
