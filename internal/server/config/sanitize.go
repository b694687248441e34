package config

import "strings"

// Sanitize returns a copy of the config with enum values trimmed and
// lowercased, and zero-valued limits replaced by their defaults.
//
// It runs after loading and before Verify.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	sanitized.Server.Redis.Addr = strings.TrimSpace(sanitized.Server.Redis.Addr)
	sanitized.Server.Metrics.Addr = strings.TrimSpace(sanitized.Server.Metrics.Addr)
	sanitized.PubSub.Overflow = normalize(sanitized.PubSub.Overflow, DefaultOverflow)
	sanitized.Log.Level = normalize(sanitized.Log.Level, DefaultLogLevel)
	sanitized.Log.Format = normalize(sanitized.Log.Format, DefaultLogFormat)

	if sanitized.Server.Redis.MaxBulkLen == 0 {
		sanitized.Server.Redis.MaxBulkLen = DefaultMaxBulkLen
	}
	if sanitized.Server.Redis.MaxArrayLen == 0 {
		sanitized.Server.Redis.MaxArrayLen = DefaultMaxArrayLen
	}
	if sanitized.Store.ShardCount == 0 {
		sanitized.Store.ShardCount = DefaultShardCount
	}
	if sanitized.PubSub.QueueSize == 0 {
		sanitized.PubSub.QueueSize = DefaultQueueSize
	}

	return &sanitized
}

func normalize(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	return strings.ReplaceAll(s, "-", "_")
}
