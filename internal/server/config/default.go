package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultWriteTimeout = 30 * time.Second
	DefaultMaxBulkLen   = 512 << 20
	DefaultMaxArrayLen  = 1 << 20

	DefaultMetricsAddr = "127.0.0.1:9121"

	DefaultShardCount    = 32
	DefaultSweepInterval = time.Second

	DefaultQueueSize = 1024
	DefaultOverflow  = "disconnect"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogSizeMB = 100
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				WriteTimeout: DefaultWriteTimeout,
				MaxBulkLen:   DefaultMaxBulkLen,
				MaxArrayLen:  DefaultMaxArrayLen,
			},
			Metrics: MetricsConfig{
				Addr: DefaultMetricsAddr,
			},
		},
		Store: StoreSection{
			ShardCount:    DefaultShardCount,
			SweepInterval: DefaultSweepInterval,
		},
		PubSub: PubSubSection{
			QueueSize: DefaultQueueSize,
			Overflow:  DefaultOverflow,
		},
		Log: LogSection{
			Level:     DefaultLogLevel,
			Format:    DefaultLogFormat,
			MaxSizeMB: DefaultLogSizeMB,
		},
	}
}
