// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package targetcmd

import (
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List targets",
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

	names, err := db.List(storage.KindTarget)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ux.Logger.PrintToUser("No targets (run 'taucmdr target create <name>' to create one)")
		return nil
	}

	header := []string{"Target", "OS", "Arch", "Compilers", "Created"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		var target models.Target
		if err := db.Get(storage.KindTarget, name, &target); err != nil {
			return err
		}
		rows = append(rows, []string{
			target.Name, target.OS, target.Arch,
			string(target.CompilerFamily),
			target.CreatedAt.Format(constants.TimeParseLayout),
		})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)
	return nil
}
