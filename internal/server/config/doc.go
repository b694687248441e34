// Package config provides server configuration for simple-redis.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, limits, enum values)
//   - sanitize.go: Normalization of loaded values
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags. Store and
// server settings are read once at start-up.
package config
