// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package applicationcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.ExactArgs(0),
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	db, err := openRecords()
	if err != nil {
		return err
	}
	defer db.Close()

	names, err := db.List(storage.KindApplication)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ux.Logger.PrintToUser("No applications (run 'taucmdr application create <name>' to create one)")
		return nil
	}

	header := []string{"Application", "OpenMP", "MPI", "Created"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		var record models.Application
		if err := db.Get(storage.KindApplication, name, &record); err != nil {
			return err
		}
		rows = append(rows, []string{
			record.Name,
			fmt.Sprintf("%t", record.OpenMP),
			fmt.Sprintf("%t", record.MPI),
			record.CreatedAt.Format(constants.TimeParseLayout),
		})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)
	return nil
}
