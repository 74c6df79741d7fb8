// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paratools/taucmdr/cmd/applicationcmd"
	"github.com/paratools/taucmdr/cmd/configcmd"
	"github.com/paratools/taucmdr/cmd/projectcmd"
	"github.com/paratools/taucmdr/cmd/pythoncmd"
	"github.com/paratools/taucmdr/cmd/softwarecmd"
	"github.com/paratools/taucmdr/cmd/targetcmd"
	"github.com/paratools/taucmdr/cmd/trialcmd"
	"github.com/paratools/taucmdr/pkg/application"
	"github.com/paratools/taucmdr/pkg/config"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/download"
	"github.com/paratools/taucmdr/pkg/logging"
	"github.com/paratools/taucmdr/pkg/platform"
	"github.com/paratools/taucmdr/pkg/prompts"
	"github.com/paratools/taucmdr/pkg/utils"
	"github.com/paratools/taucmdr/pkg/ux"
)

var (
	app *application.TauCmdr

	cfgFile        string
	logLevel       string
	nonInteractive bool
	quietFlag      bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "taucmdr",
		Long: `TAU Commander - installation and experiment harness for the TAU
Performance System.

TAU Commander guides performance engineering through a simple
project / target / application workflow and builds every software
dependency it needs along the way.

COMMAND OVERVIEW:

  build        Build TAU Commander from a source tree
  install      Build and install into the installation prefix
  clean        Remove build artifacts
  python       Inspect or provision the Python interpreter
  software     Build and verify performance-tool packages (TAU, PAPI, PDT)
  project      Manage experiment projects
  target       Describe the machines experiments run on
  application  Describe the programs under study
  trial        Run and record experiment trials
  commander    Launch the analysis environment
  config       CLI configuration

CONFIGURATION OVERRIDES:

  --os / TAUCMDR_OS                  Resolve paths for another operating system
  --arch / TAUCMDR_ARCH              Resolve paths for another architecture
  --installdir / TAUCMDR_INSTALLDIR  Installation prefix (default $HOME/taucmdr)
  --verbose / TAUCMDR_VERBOSE        Echo child process output

QUICK START:

  # Check that a usable Python interpreter is available
  taucmdr python check

  # Build and install TAU Commander
  taucmdr install

  # Record a first trial
  taucmdr project init myproject
  taucmdr target create thishost
  taucmdr application create myapp
  taucmdr trial create -- ./a.out

For detailed command help, use: taucmdr <command> --help`,
		PersistentPreRunE: createApp,
		Version:           constants.Version,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.taucmdr/taucmdr.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level for the application")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false,
		"Disable prompts; fail if required values are missing (also enabled when stdin is not a TTY or CI=1)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Echo child process output and show info level logs")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Show only errors (quiet mode)")
	rootCmd.PersistentFlags().String("os", "", "Operating system to resolve paths for (Linux, Darwin)")
	rootCmd.PersistentFlags().String("arch", "", "Architecture to resolve paths for (x86_64, aarch64, i386, ppc64le)")
	rootCmd.PersistentFlags().String("installdir", "", "Installation prefix (default is $HOME/taucmdr)")

	bindOverrideFlags(rootCmd.PersistentFlags())

	// add sub commands
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCommanderCmd())

	// interpreter management
	rootCmd.AddCommand(pythoncmd.NewCmd(app))

	// performance-tool packages
	rootCmd.AddCommand(softwarecmd.NewCmd(app))

	// experiment records
	rootCmd.AddCommand(projectcmd.NewCmd(app))
	rootCmd.AddCommand(targetcmd.NewCmd(app))
	rootCmd.AddCommand(applicationcmd.NewCmd(app))
	rootCmd.AddCommand(trialcmd.NewCmd(app))

	// add config command
	rootCmd.AddCommand(configcmd.NewCmd(app))

	return rootCmd
}

// bindOverrideFlags joins the override flags to the viper chain so the
// resolution order for these settings is flags > env > config file >
// defaults.
func bindOverrideFlags(flags *pflag.FlagSet) {
	_ = viper.BindPFlag(constants.ConfigOSKey, flags.Lookup("os"))
	_ = viper.BindPFlag(constants.ConfigArchKey, flags.Lookup("arch"))
	_ = viper.BindPFlag(constants.ConfigInstallDirKey, flags.Lookup("installdir"))
	_ = viper.BindPFlag(constants.ConfigVerboseKey, flags.Lookup("verbose"))
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}
	initConfig(baseDir, log)

	// Adjust console verbosity after the config sources are merged, so
	// TAUCMDR_VERBOSE and the config file count too.
	switch {
	case quietFlag:
		log.SetDisplayLevel("ERROR")
	case viper.GetBool(constants.ConfigVerboseKey):
		log.SetDisplayLevel("INFO")
	default:
		log.SetDisplayLevel(logLevel)
	}

	plat, err := platform.Resolve(platform.NewDetector(),
		viper.GetString(constants.ConfigOSKey),
		viper.GetString(constants.ConfigArchKey))
	if err != nil {
		return err
	}

	installDir, err := resolveInstallDir()
	if err != nil {
		return err
	}

	// If --non-interactive flag is set, propagate to env so IsInteractive() sees it
	if nonInteractive {
		_ = os.Setenv(prompts.EnvNonInteractive, "1")
	}
	prompter := prompts.NewPrompterForMode(nonInteractive)

	fetcher, err := download.New(viper.GetString(constants.ConfigDownloadToolKey), ux.Logger.Writer())
	if err != nil {
		return err
	}

	app.Setup(baseDir, installDir, log, config.New(), prompter, fetcher, plat)
	app.Cmd = cmd
	return nil
}

func setupEnv() (string, error) {
	// Set base dir
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)

	// Create the state dirs if they don't exist
	for _, dir := range []string{
		baseDir,
		filepath.Join(baseDir, constants.LogDir),
		filepath.Join(baseDir, constants.BuildDirName),
		filepath.Join(baseDir, constants.SrcCacheDirName),
		filepath.Join(baseDir, constants.PackagesDirName),
	} {
		if err := os.MkdirAll(dir, constants.DefaultPerms755); err != nil {
			// no logger here yet
			fmt.Printf("failed creating the state dir %s: %s\n", dir, err)
			return "", err
		}
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (*logging.Logger, error) {
	log, err := logging.New(filepath.Join(baseDir, constants.LogDir), logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	// create the user facing logger as a global var
	// User output goes to stdout, logs go to stderr and the log file
	ux.NewUserLog(log, ansi.NewAnsiStdout())
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig(baseDir string, log *logging.Logger) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in the state dir
		viper.AddConfigPath(baseDir)
		viper.SetConfigName(constants.DefaultConfigFileName)
		viper.SetConfigType(constants.DefaultConfigFileType)
	}

	_ = viper.BindEnv(constants.ConfigOSKey, constants.EnvOS)
	_ = viper.BindEnv(constants.ConfigArchKey, constants.EnvArch)
	_ = viper.BindEnv(constants.ConfigInstallDirKey, constants.EnvInstallDir)
	_ = viper.BindEnv(constants.ConfigVerboseKey, constants.EnvVerbose)
	_ = viper.BindEnv(constants.ConfigDownloadToolKey, constants.EnvDownloadTool)
	_ = viper.BindEnv(constants.ConfigPythonKey, constants.EnvPython)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("using config file %s", viper.ConfigFileUsed())
	}
	// No config file is normal - most users don't have one, so we silently continue
}

func resolveInstallDir() (string, error) {
	if configured := viper.GetString(constants.ConfigInstallDirKey); configured != "" {
		return utils.ExpandHome(configured), nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, constants.DefaultInstallDirName), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
