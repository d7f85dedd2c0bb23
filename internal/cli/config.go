package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the optional settings read from the flowlens config file.
// Flags always override file values.
type Config struct {
	// CacheDir is where the file cache lives. Empty means the default
	// ~/.cache/flowlens.
	CacheDir string `toml:"cache_dir"`
	// CacheTTL is the lifetime of cached graphs, e.g. "24h". Empty means
	// entries never expire.
	CacheTTL string `toml:"cache_ttl"`
	// RedisURL switches the serve command to a Redis-backed cache.
	RedisURL string `toml:"redis_url"`
	// ListenAddr is the serve command's listen address.
	ListenAddr string `toml:"listen_addr"`
}

// configPath returns the config file location: $XDG_CONFIG_HOME/flowlens/
// config.toml, falling back to ~/.config.
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flowlens", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "flowlens", "config.toml"), nil
}

// loadConfig reads the config file if it exists. A missing file yields the
// zero config, not an error; a malformed file is reported.
func loadConfig() (Config, error) {
	var cfg Config
	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// cacheTTL parses the configured TTL, defaulting to 0 (no expiry) for
// unset or malformed values.
func (c Config) cacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 0
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// cacheDir resolves the cache directory, defaulting to ~/.cache/flowlens.
func (c Config) cacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "flowlens"), nil
}
