// Package config handles configuration loading for the sazon chat client.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Keys missing from the file keep their defaults, and a missing
// default file is not an error.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from SAZON_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/sazon/client.yaml
//  3. ~/.config/sazon/client.yaml
//
// A path ending in .toml is decoded as TOML; anything else as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	agent:
//	  url: "${RECIPE_AGENT_URL}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
// SAZON_AGENT_URL, when set, overrides agent.url after the file is read.
//
// # Configuration Sections
//
//	agent:
//	  url: "http://localhost:8000"   # http or https
//	  timeout: "60s"
//
//	store:
//	  driver: "sqlite"               # sqlite, sqlite3 (cgo builds), memory
//	  path: "~/.local/share/sazon/client.db"
//
//	locale: ""                       # en, es; empty detects from LANG
//
//	loading:
//	  interval: "1800ms"
//
//	logging:
//	  level: "info"                  # debug, info, warn, error
//	  format: "text"                 # text, json
//	  file: ""                       # empty logs to stderr
//
// The same keys in TOML:
//
//	locale = "es"
//
//	[agent]
//	url = "https://recipes.example.com"
//	timeout = "30s"
//
// # Validation
//
// Every failure wraps ErrInvalid, so callers can test with errors.Is.
//
// # Usage
//
//	path, explicit := config.ResolvePath()
//	var cfg *config.Config
//	if explicit {
//	    cfg, err = config.Load(path)
//	} else {
//	    cfg, err = config.LoadOptional(path)
//	}
package config
