// Package cli holds configuration for the godialog command-line tool.
package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file name (without extension)
	ConfigFileName = "config"

	// ConfigDir is the directory for config files
	ConfigDir = ".godialog"
)

// Config holds tool configuration
type Config struct {
	// Timeout bounds external dialog processes, e.g. "30s"; 0 disables it
	Timeout time.Duration `mapstructure:"timeout"`

	// Script is the path of a Tengo script that answers dialogs instead of
	// the native backends (headless automation)
	Script string `mapstructure:"script"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout: 0,
		Script:  "",
	}
}

// LoadConfig loads configuration from ~/.godialog/config.yaml
func LoadConfig() (*Config, error) {
	configDir := getConfigDir()

	viper.SetConfigName(ConfigFileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("timeout", time.Duration(0))
	viper.SetDefault("script", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config) error {
	configDir := getConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	viper.Set("timeout", config.Timeout)
	viper.Set("script", config.Script)

	configPath := filepath.Join(configDir, ConfigFileName+".yaml")
	return viper.WriteConfigAs(configPath)
}

func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ConfigDir)
}
