package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	RPCAddress       string   `toml:"RPCAddress"`
	MetricsAddress   string   `toml:"MetricsAddress"`
	DataDir          string   `toml:"DataDir"`
	GenesisFile      string   `toml:"GenesisFile"`
	NetworkName      string   `toml:"NetworkName"`
	Environment      string   `toml:"Environment"`
	LogFile          string   `toml:"LogFile"`
	LogMaxSizeMB     int      `toml:"LogMaxSizeMB"`
	PausedModules    []string `toml:"PausedModules"`
	AllowedOperators []string `toml:"AllowedOperators"`
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.RPCAddress == "" {
		cfg.RPCAddress = ":8645"
	}
	if cfg.MetricsAddress == "" {
		cfg.MetricsAddress = ":9464"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./marketdata"
	}
	if cfg.NetworkName == "" {
		cfg.NetworkName = "mintmarket-local"
	}
	if cfg.LogMaxSizeMB <= 0 {
		cfg.LogMaxSizeMB = 100
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: write defaults to %s: %w", path, err)
	}
	return cfg, nil
}
