package config

import "time"

// ServerConfig is the root configuration for simple-redis-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Store  StoreSection  `koanf:"store"`
	PubSub PubSubSection `koanf:"pubsub"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis   RedisConfig   `koanf:"redis"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// RedisConfig configures the RESP listener and its sessions.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// MaxConnections caps concurrent sessions. 0 means unbounded.
	MaxConnections int `koanf:"max_connections"`

	// IdleTimeout closes a session that sends nothing for this long.
	// 0 disables it. Subscribed sessions are never idle-closed.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is the number of commands per second allowed per session.
	// 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`

	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`
}

// MetricsConfig configures the HTTP endpoint serving /metrics and /healthz.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StoreSection configures the in-memory value store.
type StoreSection struct {
	ShardCount    int           `koanf:"shard_count"`
	DefaultTTL    time.Duration `koanf:"default_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// PubSubSection configures the publish/subscribe hub.
type PubSubSection struct {
	QueueSize int    `koanf:"queue_size"`
	Overflow  string `koanf:"overflow"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// File enables rotating file output when set.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}
