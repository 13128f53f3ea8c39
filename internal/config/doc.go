// Package config loads pipewatch configuration from YAML with
// environment variable expansion, default values, and validation.
package config
