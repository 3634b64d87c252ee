// Package config resolves application settings and XDG paths.
//
// Settings come from an optional config file at
// $XDG_CONFIG_HOME/todo/config.toml, overridable via TODO_* environment
// variables. Everything has a working default; the file is not required.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppName is the directory name used under the XDG base dirs.
const AppName = "todo"

// Config holds the resolved application settings.
type Config struct {
	// Endpoint is the remote todos URL used to seed an empty store.
	Endpoint string `mapstructure:"endpoint"`

	// Database is the SQLite database file path.
	Database string `mapstructure:"database"`

	// LogFile is where the process log is written. The TUI owns the
	// terminal, so logs never go to stdout/stderr while it runs.
	LogFile string `mapstructure:"log_file"`
}

// Load reads settings from the config file and environment.
func Load() (*Config, error) {
	dataDir := DefaultDataDir()

	v := viper.New()
	v.SetDefault("endpoint", "https://dummyjson.com/todos")
	v.SetDefault("database", filepath.Join(dataDir, "todo.db"))
	v.SetDefault("log_file", filepath.Join(dataDir, "todo.log"))

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(DefaultConfigDir())

	v.SetEnvPrefix("TODO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/todo, falling back to
// $HOME/.config/todo.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns $XDG_DATA_HOME/todo, falling back to
// $HOME/.local/share/todo.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}
