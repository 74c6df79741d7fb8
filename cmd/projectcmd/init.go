// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [name]",
		Short: "Initialize a project in the working directory",
		Long: `Create a .tau directory in the working directory and record the
project in it. The directory name is the default project name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(_ *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	name := filepath.Base(cwd)
	if len(args) == 1 {
		name = args[0]
	}

	tauDir := filepath.Join(cwd, constants.ProjectDirName)
	if utils.PathExists(tauDir) {
		return fmt.Errorf("a project already exists at %s", tauDir)
	}
	if existing, found := storage.FindProjectDir(cwd); found {
		return fmt.Errorf("the working directory already belongs to the project at %s", existing)
	}
	if err := os.MkdirAll(tauDir, constants.DefaultPerms755); err != nil {
		return err
	}

	db, err := storage.OpenDatabase(filepath.Join(tauDir, constants.RecordsDBFileName))
	if err != nil {
		return err
	}
	defer db.Close()

	project := models.Project{Name: name, CreatedAt: time.Now().UTC()}
	if err := db.Put(storage.KindProject, name, project); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Initialized project %q at %s", name, tauDir)
	return nil
}
