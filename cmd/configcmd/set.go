// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paratools/taucmdr/pkg/config"
	"github.com/paratools/taucmdr/pkg/constants"
	"github.com/paratools/taucmdr/pkg/platform"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the config file.

Examples:
  taucmdr config set os linux
  taucmdr config set installdir /opt/taucmdr
  taucmdr config set download.tool curl`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(_ *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]
	if !config.IsKnownKey(key) {
		return config.ErrUnknownKey(key)
	}

	normalized, err := normalizeValue(key, value)
	if err != nil {
		return err
	}
	if err := app.Conf.SetConfigValue(key, normalized); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Set %s = %s in %s\n", key, normalized, app.Conf.GetConfigPath())
	return nil
}

// normalizeValue validates the value against the key's domain so bad
// settings fail here instead of at first use.
func normalizeValue(key string, value string) (string, error) {
	switch key {
	case constants.ConfigOSKey:
		return platform.NormalizeOS(value)
	case constants.ConfigArchKey:
		return platform.NormalizeArch(value)
	case constants.ConfigVerboseKey:
		verbose, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("invalid verbose value %q: %w", value, err)
		}
		return strconv.FormatBool(verbose), nil
	case constants.ConfigDownloadToolKey:
		switch value {
		case constants.DownloadToolAuto, constants.DownloadToolInternal,
			constants.DownloadToolCurl, constants.DownloadToolWget:
			return value, nil
		}
		return "", fmt.Errorf("invalid download tool %q, valid tools: %s, %s, %s, %s",
			value, constants.DownloadToolAuto, constants.DownloadToolInternal,
			constants.DownloadToolCurl, constants.DownloadToolWget)
	default:
		return value, nil
	}
}
