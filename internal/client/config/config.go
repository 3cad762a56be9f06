package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the console.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	PageSize       int
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3000"
	c.SessionDBPath = "gophadmin.db"
	c.PageSize = 10
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
