// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/config"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: `Get the effective value of a setting after merging command line flags,
TAUCMDR_* environment variables, the config file and built-in defaults.

Examples:
  taucmdr config get os
  taucmdr config get download.tool`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
}

func runGet(_ *cobra.Command, args []string) error {
	key := args[0]
	if !config.IsKnownKey(key) {
		return config.ErrUnknownKey(key)
	}
	fmt.Printf("%s = %s\n", key, app.Conf.GetConfigStringValue(key))
	return nil
}
