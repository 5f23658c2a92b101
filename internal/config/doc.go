// Package config loads, normalizes, and validates namecast configuration.
//
// Configuration is TOML on disk with a resolution order of explicit flag
// path, ~/.config/namecast/config.toml, then ./namecast.toml. Missing files
// fall back to built-in defaults so the CLI works without any setup.
package config
