// Package config loads runtime configuration for the gophadmin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config (or $GOPHADMIN_CONFIG).
//  3. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the remote user API
//	-d string   path of the local session database
//	-p int      page size of the user listing
//	-t int      per-request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:3000",
//	  "session_db_path": "gophadmin.db",
//	  "page_size": 10,
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
//
// request_timeout accepts a duration string or integer nanoseconds.
package config
