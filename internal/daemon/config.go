// Package daemon manages the Stagecraft daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Store     StoreConfig     `toml:"store"`
	Referral  ReferralConfig  `toml:"referral"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StoreConfig controls where profile data lives.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// ReferralConfig controls the referral reward policy.
type ReferralConfig struct {
	RewardPercent int `toml:"reward_percent"`
}

// TelemetryConfig controls optional observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := stagecraftHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Store: StoreConfig{
			Dir: homeDir,
		},
		Referral: ReferralConfig{
			RewardPercent: 50,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "stagecraft.log"),
		},
	}
}

// LoadConfig reads config from ~/.stagecraft/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(stagecraftHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.stagecraft/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(stagecraftHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// stagecraftHome returns the Stagecraft data directory.
func stagecraftHome() string {
	if env := os.Getenv("STAGECRAFT_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".stagecraft")
}

// StagecraftHome is exported for use by other packages.
func StagecraftHome() string {
	return stagecraftHome()
}
