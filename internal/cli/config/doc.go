// Package config holds the optional simple-redis-cli settings file
// (~/.simple-redis/cli.yaml). Values in it are defaults that command-line
// flags and SIMPLEREDIS_ environment variables override.
package config
