// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env
// struct tags. Every option has a safe default; Load only fails on malformed
// values.
package config
