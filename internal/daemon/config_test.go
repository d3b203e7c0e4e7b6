package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8090)
	}
	if cfg.Referral.RewardPercent != 50 {
		t.Errorf("Referral.RewardPercent = %d, want 50", cfg.Referral.RewardPercent)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("STAGECRAFT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("missing file should fall back to defaults, port = %d", cfg.API.Port)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("STAGECRAFT_HOME", home)

	raw := "[api]\nport = 9999\n\n[referral]\nreward_percent = 25\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(raw), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", cfg.API.Port)
	}
	if cfg.Referral.RewardPercent != 25 {
		t.Errorf("RewardPercent = %d, want 25", cfg.Referral.RewardPercent)
	}
	// Untouched keys keep their defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("STAGECRAFT_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 7777
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.API.Port != 7777 {
		t.Errorf("round-trip port = %d, want 7777", loaded.API.Port)
	}
}
