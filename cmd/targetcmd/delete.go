// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package targetcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

var deleteForce bool

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [targetName]",
		Short: "Delete a target",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
	cmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without asking for confirmation")
	return cmd
}

func runDelete(_ *cobra.Command, args []string) error {
	name := args[0]
	db, err := openRecords()
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.Exists(storage.KindTarget, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("target %q does not exist", name)
	}

	if !deleteForce {
		confirmed, err := app.CaptureYesNo(fmt.Sprintf("Delete target %q?", name))
		if err != nil {
			return err
		}
		if !confirmed {
			ux.Logger.PrintToUser("Aborted")
			return nil
		}
	}

	if err := db.Delete(storage.KindTarget, name); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Deleted target %q", name)
	return nil
}
