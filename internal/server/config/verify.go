package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/yndnr/simple-redis/internal/core/pubsub"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStore(&cfg.Store); err != nil {
		return err
	}
	if err := verifyPubSub(&cfg.PubSub); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}
	if cfg.Redis.MaxConnections < 0 {
		return errors.New("server.redis.max_connections must not be negative")
	}
	if cfg.Redis.IdleTimeout < 0 || cfg.Redis.WriteTimeout < 0 {
		return errors.New("server.redis timeouts must not be negative")
	}
	if cfg.Redis.RateLimit < 0 {
		return errors.New("server.redis.rate_limit must not be negative")
	}
	if cfg.Redis.MaxBulkLen <= 0 || cfg.Redis.MaxArrayLen <= 0 {
		return errors.New("server.redis.max_bulk_len and max_array_len must be positive")
	}

	if cfg.Metrics.Enabled {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if cfg.Metrics.Addr == cfg.Redis.Addr {
			return fmt.Errorf("server.metrics.addr %q conflicts with server.redis.addr", cfg.Metrics.Addr)
		}
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func verifyStore(cfg *StoreSection) error {
	if cfg.ShardCount <= 0 || cfg.ShardCount&(cfg.ShardCount-1) != 0 {
		return fmt.Errorf("store.shard_count must be a power of two, got %d", cfg.ShardCount)
	}
	if cfg.DefaultTTL < 0 {
		return errors.New("store.default_ttl must not be negative")
	}
	if cfg.SweepInterval < 0 {
		return errors.New("store.sweep_interval must not be negative")
	}
	return nil
}

func verifyPubSub(cfg *PubSubSection) error {
	if cfg.QueueSize < 1 {
		return errors.New("pubsub.queue_size must be at least 1")
	}
	if _, err := pubsub.ParseOverflowPolicy(cfg.Overflow); err != nil {
		return fmt.Errorf("pubsub.overflow: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	if cfg.File != "" && cfg.MaxSizeMB < 0 {
		return errors.New("log.max_size_mb must not be negative")
	}
	return nil
}
