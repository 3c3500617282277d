package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/tailscale/hujson"
)

const (
	configDirName  = "magpie"
	configFileName = "config.json"
)

// Config is the user configuration stored at
// $XDG_CONFIG_HOME/magpie/config.json. The file may contain comments
// and trailing commas (JSONC).
type Config struct {
	Settings Settings `json:"settings"`
}

// Settings holds user preferences.
type Settings struct {
	// GitProtocol selects the catalog clone URL form: "https"
	// (default) or "ssh".
	GitProtocol string `json:"gitProtocol,omitempty"`
	// DisableUpdateCheck skips the upstream update annotation pass.
	DisableUpdateCheck bool `json:"disableUpdateCheck,omitempty"`
	// CatalogBaseURL overrides the content API endpoint (testing).
	CatalogBaseURL string `json:"catalogBaseURL,omitempty"`
}

func defaultConfig() *Config {
	return &Config{Settings: Settings{GitProtocol: "https"}}
}

// ConfigManager handles reading and writing the configuration.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager at the default XDG config
// location.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{configDir: filepath.Join(xdg.ConfigHome, configDirName)}
}

// NewConfigManagerWithDir creates a ConfigManager using a custom
// directory. Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return filepath.Join(cm.configDir, configFileName)
}

// Load reads the config from disk. A missing file yields the default
// config; a malformed one is an error.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// The file is JSONC: strip comments and trailing commas first.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Settings.GitProtocol == "" {
		cfg.Settings.GitProtocol = "https"
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
// Comments in an existing file are not preserved.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := os.MkdirAll(cm.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Write atomically: write to temp file then rename.
	tmpPath := cm.ConfigPath() + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, cm.ConfigPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
