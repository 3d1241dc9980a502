// Package config loads, normalizes, and validates werscore configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as WERSCORE_DATA_DIR,
// which may also come from a .env file in the working directory. The Config
// type centralizes every knob the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical policy names, and clear validation errors.
package config
