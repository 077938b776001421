package config

import (
	"encoding/json"
	"os"

	"github.com/osobist/wikisync/internal/flagx"
	"github.com/osobist/wikisync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	VaultDir       string         `json:"vault_dir"`
	MetaDBPath     string         `json:"meta_db_path"`
}

// parseJson overlays Config with values loaded from the JSON file given via
// the -c/-config flags. Absent file path means no JSON is loaded. Only
// fields present in the JSON override the current values. Read or unmarshal
// errors panic; config is resolved once at startup and a broken file should
// be loud.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.VaultDir != "" {
		cfg.VaultDir = jc.VaultDir
	}
	if jc.MetaDBPath != "" {
		cfg.MetaDBPath = jc.MetaDBPath
	}
}
