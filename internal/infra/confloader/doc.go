// Package confloader loads configuration from layered sources.
//
// It uses koanf as the underlying library. Sources, lowest priority first:
//
//  1. Default values (the target struct as passed to Load)
//  2. Configuration file (YAML)
//  3. Environment variables (SIMPLEREDIS_ prefix)
//  4. Explicit overrides via LoadMap (command-line flags)
//
// Watcher reports writes to the configuration file so that the few
// reloadable settings can be re-applied without a restart.
package confloader
