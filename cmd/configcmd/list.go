// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/config"
	"github.com/paratools/taucmdr/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.ExactArgs(0),
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	header := []string{"Key", "Value", "Set"}
	rows := make([][]string, 0, len(config.KnownKeys))
	for _, key := range config.KnownKeys {
		value := app.Conf.GetConfigStringValue(key)
		set := "default"
		if app.Conf.ConfigValueIsSet(key) {
			set = "yes"
		}
		rows = append(rows, []string{key, value, set})
	}
	ux.RenderTable(ux.Logger.Writer(), header, rows)
	return nil
}
