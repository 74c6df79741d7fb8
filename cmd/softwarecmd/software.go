// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package softwarecmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/software"
	"github.com/paratools/taucmdr/pkg/storage"
)

var (
	app *application.TauCmdr

	familyFlag string
)

func NewCmd(injectedApp *application.TauCmdr) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "software",
		Short: "Build and verify performance-tool packages",
		Long: `Build performance-tool packages (TAU, PAPI, PDT, binutils) from
source and manage their installations.

Packages install under <level>/packages/<name>/<uid> where uid is
derived from the source location, so the same source always lands at
the same prefix. Existing installations anywhere in the storage
hierarchy are found and reused; new ones go to the highest writable
level.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	cmd.PersistentFlags().StringVar(&familyFlag, "family", string(models.GNU),
		"compiler family to build with (GNU, Intel)")
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newInfoCmd())
	return cmd
}

func newManager() (*software.Manager, error) {
	catalog, err := software.LoadCatalog(app.GetCatalogPath())
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	params := software.InstallationParams{
		Platform:  app.Platform,
		Family:    models.CompilerFamilyFromString(familyFlag),
		Hierarchy: storage.NewHierarchy(cwd, app.GetBaseDir(), app.GetSystemDir()),
		Fetcher:   app.GetDownloader(),
		Log:       app.Log,
	}
	return software.NewManager(catalog, params), nil
}
