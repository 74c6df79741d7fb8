// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package applicationcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

var (
	createOpenMP bool
	createMPI    bool
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [applicationName]",
		Short: "Create a new application record",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCreate,
	}
	cmd.Flags().BoolVar(&createOpenMP, "openmp", false, "the application uses OpenMP")
	cmd.Flags().BoolVar(&createMPI, "mpi", false, "the application uses MPI")
	return cmd
}

func runCreate(_ *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		var err error
		name, err = app.Prompt.CaptureString("What is the application name?")
		if err != nil {
			return err
		}
	}
	db, err := openRecords()
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.Exists(storage.KindApplication, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("application %q already exists (delete it first to recreate it)", name)
	}

	record := models.Application{
		Name:      name,
		OpenMP:    createOpenMP,
		MPI:       createMPI,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Put(storage.KindApplication, name, record); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Created application %q (OpenMP: %t, MPI: %t)",
		name, record.OpenMP, record.MPI)
	return nil
}
