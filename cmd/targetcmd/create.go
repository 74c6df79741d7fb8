// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package targetcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/ux"
)

var (
	createOS     string
	createArch   string
	createFamily string
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a target",
		Long: `Create a target record.

The host OS and architecture default to the resolved platform of this
invocation; override them to describe another machine.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCreate,
	}
	cmd.Flags().StringVar(&createOS, "os", "", "target operating system (default is the resolved platform)")
	cmd.Flags().StringVar(&createArch, "arch", "", "target architecture (default is the resolved platform)")
	cmd.Flags().StringVar(&createFamily, "family", string(models.GNU), "compiler family (GNU, Intel)")
	return cmd
}

func runCreate(_ *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		var err error
		name, err = app.Prompt.CaptureString("What is the target name?")
		if err != nil {
			return err
		}
	}

	targetOS := app.Platform.OS
	if createOS != "" {
		normalized, err := platform.NormalizeOS(createOS)
		if err != nil {
			return err
		}
		targetOS = normalized
	}
	targetArch := app.Platform.Arch
	if createArch != "" {
		normalized, err := platform.NormalizeArch(createArch)
		if err != nil {
			return err
		}
		targetArch = normalized
	}

	db, err := openRecords()
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.Exists(storage.KindTarget, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("target %q already exists (delete it first to recreate it)", name)
	}

	target := models.Target{
		Name:           name,
		OS:             targetOS,
		Arch:           targetArch,
		CompilerFamily: models.CompilerFamilyFromString(createFamily),
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.Put(storage.KindTarget, name, target); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Created target %q (%s %s, %s compilers)",
		name, target.OS, target.Arch, target.CompilerFamily)
	return nil
}
