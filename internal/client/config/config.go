// Package config holds runtime settings for the wikisync CLI and the
// defaults → JSON file → flags loading chain.
package config

import "time"

// Config holds runtime settings for the wikisync CLI.
//
// Fields:
//   - BaseURL: root of the wiki service, no trailing slash.
//   - RequestTimeout: per-request HTTP timeout.
//   - VaultDir: directory of the encrypted session vault.
//   - MetaDBPath: SQLite file holding per-document article metadata.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	VaultDir       string
	MetaDBPath     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://scpfoundation.net"
	c.RequestTimeout = 30 * time.Second
	c.VaultDir = "vault"
	c.MetaDBPath = "wikisync.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
