// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcmd

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
		Short: "List projects",
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

	names, err := db.List(storage.KindProject)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ux.Logger.PrintToUser("No projects (run 'taucmdr project init' to create one)")
		return nil
	}

	header := []string{"Project", "Created"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		var project models.Project
		if err := db.Get(storage.KindProject, name, &project); err != nil {
			return err
		}
		rows = append(rows, []string{project.Name, project.CreatedAt.Format(constants.TimeParseLayout)})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)
	return nil
}
