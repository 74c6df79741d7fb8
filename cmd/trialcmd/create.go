// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trialcmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/models"
	"github.com/paratools/taucmdr/pkg/software"
	"github.com/paratools/taucmdr/pkg/storage"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

var (
	createTarget      string
	createApplication string
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [flags] -- command [args...]",
		Short: "Run a command and record the trial",
		Long: `The trial create command runs the given command with bin/ and lib/
of every installed performance tool prepended to its environment,
streams its output to the terminal and to a per-trial log file, and
records the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCreate,
	}
	cmd.Flags().StringVar(&createTarget, "target", "", "target the trial runs on (defaults when only one exists)")
	cmd.Flags().StringVar(&createApplication, "application", "", "application under study (defaults when only one exists)")
	return cmd
}

func runCreate(cobraCmd *cobra.Command, args []string) error {
	level, err := recordLevel()
	if err != nil {
		return err
	}
	db, err := storage.OpenDatabase(level.RecordsPath())
	if err != nil {
		return err
	}
	defer db.Close()

	target, err := resolveRecordName(db, storage.KindTarget, createTarget, "target")
	if err != nil {
		return err
	}
	appName, err := resolveRecordName(db, storage.KindApplication, createApplication, "application")
	if err != nil {
		return err
	}

	number, err := nextTrialNumber(db)
	if err != nil {
		return err
	}

	env, err := runtimeEnv()
	if err != nil {
		return err
	}

	logDir := filepath.Join(level.Prefix, constants.TrialsDirName)
	if err := os.MkdirAll(logDir, constants.DefaultPerms755); err != nil {
		return err
	}
	logPath := filepath.Join(logDir, fmt.Sprintf("trial-%s.log", trialKey(number)))
	logFile, err := os.Create(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ux.Logger.PrintToUser("Trial %s: %s", trialKey(number), strings.Join(args, " "))
	startedAt := time.Now().UTC()
	runErr := utils.RunCommand(cobraCmd.Context(), utils.CommandSpec{
		Name:  args[0],
		Args:  args[1:],
		Env:   env,
		Stdin: os.Stdin,
	}, io.MultiWriter(os.Stdout, logFile), io.MultiWriter(os.Stderr, logFile))
	duration := time.Since(startedAt)
	exitCode := utils.ExitCode(runErr)

	record := models.Trial{
		Number:      number,
		Target:      target,
		Application: appName,
		Command:     args,
		StartedAt:   startedAt,
		Duration:    duration,
		ExitCode:    exitCode,
		LogFile:     logPath,
	}
	if err := db.Put(storage.KindTrial, trialKey(number), record); err != nil {
		return err
	}

	if runErr != nil {
		ux.Logger.RedXToUser("Trial %s exited with status %d", trialKey(number), exitCode)
		return fmt.Errorf("trial %s recorded a failing run (log at %s)", trialKey(number), logPath)
	}
	ux.Logger.GreenCheckmarkToUser("Trial %s complete in %s (log at %s)",
		trialKey(number), duration.Round(time.Millisecond), logPath)
	return nil
}

// resolveRecordName applies the flag value when given, defaults to the
// only record of the kind, and prompts when several exist. The field
// stays empty when there is nothing to default to.
func resolveRecordName(db *storage.Database, kind storage.Kind, flagValue string, flagName string) (string, error) {
	if flagValue != "" {
		exists, err := db.Exists(kind, flagValue)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("%s %q does not exist", flagName, flagValue)
		}
		return flagValue, nil
	}
	names, err := db.List(kind)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	default:
		picked, err := app.Prompt.CaptureList(fmt.Sprintf("Pick the %s for this trial", flagName), names)
		if err != nil {
			return "", fmt.Errorf("more than one %s exists (%s): %w",
				flagName, strings.Join(names, ", "), err)
		}
		return picked, nil
	}
}

// nextTrialNumber is one past the highest recorded trial. Keys sort in
// byte order, so the last key is the highest number.
func nextTrialNumber(db *storage.Database) (int, error) {
	names, err := db.List(storage.KindTrial)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 1, nil
	}
	var last int
	if _, err := fmt.Sscanf(names[len(names)-1], "%d", &last); err != nil {
		return 0, fmt.Errorf("malformed trial key %q: %w", names[len(names)-1], err)
	}
	return last + 1, nil
}

// runtimeEnv collects the runtime environment of every installed
// catalog package. Packages that fail to resolve for this platform are
// skipped, they cannot be installed here anyway.
func runtimeEnv() (map[string]string, error) {
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
		Family:    models.GNU,
		Hierarchy: storage.NewHierarchy(cwd, app.GetBaseDir(), app.GetSystemDir()),
		Fetcher:   app.GetDownloader(),
		Log:       app.Log,
	}
	mgr := software.NewManager(catalog, params)

	env := map[string]string{}
	for _, name := range catalog.Names() {
		inst, err := mgr.Installation(name, "")
		if err != nil {
			app.Log.Debugf("skipping %s: %s", name, err)
			continue
		}
		if inst.Installed() {
			inst.RuntimeEnv(env)
		}
	}
	return env, nil
}
