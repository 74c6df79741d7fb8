// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a project and its records",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(_ *cobra.Command, args []string) error {
	db, err := openRecords()
	if err != nil {
		return err
	}
	defer db.Close()

	var project models.Project
	if err := db.Get(storage.KindProject, args[0], &project); err != nil {
		return err
	}

	ux.Logger.PrintToUser("project %q created %s", project.Name, project.CreatedAt.Format(constants.TimeParseLayout))
	if cwd, err := os.Getwd(); err == nil {
		if dir, found := storage.FindProjectDir(cwd); found {
			ux.Logger.PrintToUser("records: %s", dir)
		}
	}

	for _, kind := range []storage.Kind{storage.KindTarget, storage.KindApplication, storage.KindTrial} {
		names, err := db.List(kind)
		if err != nil {
			return err
		}
		ux.Logger.PrintToUser("%s: %d", kind, len(names))
	}
	return nil
}
