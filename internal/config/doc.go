// Package config loads runtime configuration from multiple sources (YAML
// files, environment variables, CLI flags) with precedence: CLI flags >
// Environment variables > YAML config > Defaults. A missing config file is
// not fatal; the service starts on defaults and the miss is surfaced to the
// caller for logging.
package config
