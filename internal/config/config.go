// Package config loads settings from a YAML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/eqflash/internal/history"
)

// EnvPrefix is the prefix for environment overrides, e.g. EQFLASH_MAX_HISTORY.
const EnvPrefix = "EQFLASH_"

// Config holds the runtime settings.
type Config struct {
	DB         string `koanf:"db" validate:"required"`
	ConfigFile string `koanf:"config"`
	MaxHistory int    `koanf:"max-history" validate:"min=1,max=10000"`
	LogLevel   string `koanf:"log-level" validate:"oneof=debug info warn error"`
	ReposDir   string `koanf:"repos-dir" validate:"required"`
	Shuffle    bool   `koanf:"shuffle"`
}

// Flags registers the command-line flags with their defaults.
func Flags(f *pflag.FlagSet) {
	f.String("db", "eqflash.db", "Path to the SQLite database file")
	f.String("config", "eqflash.yaml", "Path to an optional YAML config file")
	f.Int("max-history", history.DefaultMaxSize, "Number of undo steps to keep")
	f.String("log-level", "warn", "Log level: debug, info, warn or error")
	f.String("repos-dir", "repos", "Directory for git import checkouts")
	f.Bool("shuffle", false, "Shuffle the deck when a study session starts")
}

// Load resolves the configuration. Precedence, lowest first: flag defaults,
// config file, environment, flags set on the command line.
func Load(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if v, ok := os.LookupEnv(EnvPrefix + "CONFIG"); ok && !flags.Changed("config") {
		path = v
	}
	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !(errors.Is(err, fs.ErrNotExist) && !flags.Changed("config")) {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	// Passing k lets unchanged flags fill in only keys that are still unset.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
