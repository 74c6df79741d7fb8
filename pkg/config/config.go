// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/paratools/taucmdr/pkg/constants"
)

// KnownKeys are the settings the config command recognizes.
var KnownKeys = []string{
	constants.ConfigOSKey,
	constants.ConfigArchKey,
	constants.ConfigInstallDirKey,
	constants.ConfigVerboseKey,
	constants.ConfigDownloadToolKey,
	constants.ConfigPythonKey,
}

type Config struct{}

func New() *Config {
	return &Config{}
}

func (*Config) GetConfigStringValue(key string) string {
	return viper.GetString(key)
}

func (*Config) GetConfigBoolValue(key string) bool {
	return viper.GetBool(key)
}

func (*Config) ConfigValueIsSet(key string) bool {
	return viper.IsSet(key)
}

func (*Config) ConfigFileExists() bool {
	return viper.ConfigFileUsed() != ""
}

// GetConfigPath returns the path to the configuration file
func (*Config) GetConfigPath() string {
	return viper.ConfigFileUsed()
}

// SetConfigValue persists a setting to the config file, creating the
// file if no config has been written before.
func (*Config) SetConfigValue(key string, value interface{}) error {
	viper.Set(key, value)
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := filepath.Join(home, constants.BaseDirName,
		constants.DefaultConfigFileName+"."+constants.DefaultConfigFileType)
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return err
	}
	return viper.WriteConfigAs(path)
}

// IsKnownKey reports whether key is a recognized setting.
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ErrUnknownKey builds the error for an unrecognized setting, listing
// the valid ones.
func ErrUnknownKey(key string) error {
	keys := append([]string{}, KnownKeys...)
	sort.Strings(keys)
	return fmt.Errorf("unknown config key %q, valid keys: %v", key, keys)
}
