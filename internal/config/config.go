// Package config loads service settings from defaults, an optional YAML
// file, environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/krishakhanal/Tasks-API/internal/store"
)

// Config keys.
const (
	KeyPort            = "port"
	KeyStore           = "store"
	KeyTasksFile       = "tasks_file"
	KeyDBPath          = "db_path"
	KeyLogLevel        = "log_level"
	KeyShutdownTimeout = "shutdown_timeout"
)

const (
	DefaultPort            = 3002
	DefaultStore           = store.BackendFile
	DefaultTasksFile       = "./tasks.json"
	DefaultDBPath          = "./data/tasks.db"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 15 * time.Second
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	KeyPort:            "PORT",
	KeyStore:           "STORE_BACKEND",
	KeyTasksFile:       "TASKS_FILE",
	KeyDBPath:          "DB_PATH",
	KeyLogLevel:        "LOG_LEVEL",
	KeyShutdownTimeout: "SHUTDOWN_TIMEOUT",
}

// Config holds all application configuration.
type Config struct {
	Port            int
	Store           string
	TasksFile       string
	DBPath          string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load builds a Config. configFile may be empty; flags may be nil. Flags
// are bound by their long name with dashes, e.g. --tasks-file.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyStore, DefaultStore)
	v.SetDefault(KeyTasksFile, DefaultTasksFile)
	v.SetDefault(KeyDBPath, DefaultDBPath)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if flags != nil {
		for key := range envBindings {
			f := flags.Lookup(flagName(key))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:            v.GetInt(KeyPort),
		Store:           v.GetString(KeyStore),
		TasksFile:       v.GetString(KeyTasksFile),
		DBPath:          v.GetString(KeyDBPath),
		LogLevel:        v.GetString(KeyLogLevel),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	switch c.Store {
	case store.BackendFile:
		if c.TasksFile == "" {
			return errors.New("tasks_file is required for the file store")
		}
	case store.BackendSQLite:
		if c.DBPath == "" {
			return errors.New("db_path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("invalid store %q: must be %q or %q", c.Store, store.BackendFile, store.BackendSQLite)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// Address returns the listen address in ":port" form.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StorePath returns the path the selected backend persists to.
func (c *Config) StorePath() string {
	if c.Store == store.BackendSQLite {
		return c.DBPath
	}
	return c.TasksFile
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
