package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophadmin/internal/flagx"
	"github.com/dmitrijs2005/gophadmin/internal/timex"
)

// JsonConfig is the on-disk shape. Zero values leave the current setting
// untouched, so a file may configure only a subset of fields.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	SessionDBPath  string         `json:"session_db_path"`
	PageSize       int            `json:"page_size"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on
// unreadable or malformed files.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
