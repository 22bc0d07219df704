// Package config loads, validates, and normalizes aircheck's TOML
// configuration. A sample configuration is embedded for `aircheck
// config init`; defaults keep the daemon runnable with nothing but a
// stream registry reachable and at least one capture binary on PATH.
package config
