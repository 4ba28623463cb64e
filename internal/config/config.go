package config

import (
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config is loaded from a yaml file, then overridden by environment
// variables so deployments can keep the file free of secrets.
type Config struct {
	Backend struct {
		BaseURL string `yaml:"base_url" env:"TRADER_BACKEND_URL"`
		WSURL   string `yaml:"ws_url" env:"TRADER_BACKEND_WS_URL"`
	} `yaml:"backend"`
	Cache struct {
		Path string `yaml:"path" env:"TRADER_CACHE_PATH"`
	} `yaml:"cache"`
	Logging struct {
		Level string `yaml:"level" env:"TRADER_LOG_LEVEL"`
	} `yaml:"logging"`
}

// Load reads the yaml file at path (a missing file is not an error, env-only
// setups are fine) and applies environment overrides on top.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			decoder := yaml.NewDecoder(f)
			if err := decoder.Decode(&cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "trader.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return &cfg, nil
}
