package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-level defaults loaded from the config file. Command-line
// flags override config values, which override built-in defaults.
type Config struct {
	CacheDir  string `toml:"cache_dir"`  // artifact cache directory
	Workers   int    `toml:"workers"`    // worker pool size (0 = one per CPU)
	DPI       int    `toml:"dpi"`        // raster resolution
	RedisAddr string `toml:"redis_addr"` // optional redis artifact store
}

// configPath returns the config file path using the XDG standard
// (~/.config/gridplot/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file if present. A missing file is not an
// error; a malformed file falls back to defaults so the CLI stays usable.
func LoadConfig() *Config {
	cfg := &Config{}
	path, err := configPath()
	if err != nil {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		printWarning("ignoring malformed config %s: %v", path, err)
		return &Config{}
	}
	return cfg
}
