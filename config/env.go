// Package config loads the settings of the framesim command line tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the run settings that can come from the environment. Command
// line flags override them.
type Config struct {
	Seed        uint64 `env:"FRAMESIM_SEED" envDefault:"0"`
	Frames      uint64 `env:"FRAMESIM_FRAMES" envDefault:"100"`
	LogLevel    string `env:"FRAMESIM_LOG_LEVEL" envDefault:"info"`
	LogConsole  bool   `env:"FRAMESIM_LOG_CONSOLE" envDefault:"true"`
	Record      string `env:"FRAMESIM_RECORD"`
	Monitor     bool   `env:"FRAMESIM_MONITOR"`
	MonitorPort int    `env:"FRAMESIM_MONITOR_PORT" envDefault:"0"`
}

// Load reads dotenvPath, when it exists, into the environment and parses the
// environment into a Config. Variables that are already set are not
// overwritten by the file.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		err := godotenv.Load(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	return ParseEnv()
}

// ParseEnv parses the environment into a Config.
func ParseEnv() (Config, error) {
	cfg := Config{}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
