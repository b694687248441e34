package config

// CLIConfig is the configuration for simple-redis-cli.
type CLIConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Output string `yaml:"output"` // raw, json, yaml

	// HistoryFile overrides the REPL history location. "-" disables
	// persistence.
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Host:   "127.0.0.1",
		Port:   6379,
		Output: "raw",
	}
}
