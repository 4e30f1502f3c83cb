// Package config loads, normalizes, and validates the chkexport TOML
// configuration. The Config value is constructed once at startup and passed
// explicitly to every component.
package config
