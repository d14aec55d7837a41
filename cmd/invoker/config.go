package main

import (
	"os"

	"github.com/dipdup-io/starknet-invoker/internal/tracker"
	"github.com/dipdup-net/go-lib/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config -
type Config struct {
	config.Config `yaml:",inline"`
	LogLevel      string         `yaml:"log_level" validate:"omitempty,oneof=debug trace info warn error fatal panic"`
	Invoker       Invoker        `yaml:"invoker"`
	Tracker       tracker.Config `yaml:"tracker"`
}

// Substitute -
func (c *Config) Substitute() error {
	if err := c.Config.Substitute(); err != nil {
		return err
	}
	return nil
}

// Invoker -
type Invoker struct {
	EnvFile       string  `yaml:"env_file"`
	TomlFile      string  `yaml:"toml_file"`
	Datasource    string  `yaml:"datasource" validate:"omitempty"`
	Journal       bool    `yaml:"journal"`
	FeeMultiplier float64 `yaml:"fee_multiplier" validate:"omitempty,min=1"`
	PollInterval  int     `yaml:"poll_interval" validate:"omitempty,min=1"`
	MaxCPU        int     `yaml:"max_cpu,omitempty" validate:"omitempty,min=1"`
}

// Load -
func Load(filename string) (cfg Config, err error) {
	err = config.Parse(filename, &cfg)
	return
}

// LoadOptional - returns nil config if file is absent
func LoadOptional(filename string) (*Config, error) {
	if filename == "" {
		return nil, nil
	}
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", filename).Msg("config file is not found, running without it")
			return nil, nil
		}
		return nil, errors.Wrap(err, filename)
	}

	cfg, err := Load(filename)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return &cfg, nil
}

// HasDatabase -
func (c *Config) HasDatabase() bool {
	return c != nil && c.Database.Kind != ""
}

// JournalEnabled - journal is written only when it is requested by flag or `invoker.journal`
func (c *Config) JournalEnabled(fromFlag bool) bool {
	if fromFlag {
		return true
	}
	return c != nil && c.Invoker.Journal
}

// DataSource - datasource for read-only calls. Falls back to RPC url from starknet context.
func (c *Config) DataSource(rpcURL string) config.DataSource {
	if c != nil && c.Invoker.Datasource != "" {
		if ds, ok := c.DataSources[c.Invoker.Datasource]; ok {
			return ds
		}
		log.Warn().Str("name", c.Invoker.Datasource).Msg("unknown datasource, using RPC url from environment")
	}
	return config.DataSource{
		Kind: "starknet",
		URL:  rpcURL,
	}
}
