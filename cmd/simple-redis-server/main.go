package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/infra/buildinfo"
	"github.com/yndnr/simple-redis/internal/infra/confloader"
	"github.com/yndnr/simple-redis/internal/infra/shutdown"
	"github.com/yndnr/simple-redis/internal/server/config"
	"github.com/yndnr/simple-redis/internal/server/httpserver"
	"github.com/yndnr/simple-redis/internal/server/redisserver"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/internal/telemetry/logger"
	"github.com/yndnr/simple-redis/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:    "simple-redis-server",
		Usage:   "in-memory key-value store speaking RESP",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to configuration file"},
			&cli.StringFlag{Name: "addr", Usage: "RESP listen address"},
			&cli.IntFlag{Name: "max-connections", Usage: "maximum concurrent clients (0 = unbounded)"},
			&cli.DurationFlag{Name: "default-ttl", Usage: "expiry applied to keys written without one (0 = none)"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "enable /metrics and /healthz on this address"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")

	overrides := flagOverrides(c)
	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	// Bind before starting anything so address errors exit non-zero.
	redisLn, err := net.Listen("tcp", cfg.Server.Redis.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Redis.Addr, err)
	}
	var metricsLn net.Listener
	if cfg.Server.Metrics.Enabled {
		if metricsLn, err = net.Listen("tcp", cfg.Server.Metrics.Addr); err != nil {
			redisLn.Close()
			return fmt.Errorf("listen %s: %w", cfg.Server.Metrics.Addr, err)
		}
	}

	log.Info("starting simple-redis-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile)

	store := memory.New(
		memory.WithShardCount(cfg.Store.ShardCount),
		memory.WithDefaultTTL(cfg.Store.DefaultTTL),
	)
	policy, err := pubsub.ParseOverflowPolicy(cfg.PubSub.Overflow)
	if err != nil {
		return err
	}
	hub := pubsub.NewHub(
		pubsub.WithQueueSize(cfg.PubSub.QueueSize),
		pubsub.WithOverflowPolicy(policy),
	)

	opts := []redisserver.Option{redisserver.WithLogger(log.With("component", "redis"))}
	var registry *metric.Registry
	if cfg.Server.Metrics.Enabled {
		registry = metric.NewRegistry()
		opts = append(opts, redisserver.WithMetrics(registry))
	}
	srv := redisserver.New(redisConfig(cfg), store, hub, opts...)

	var httpSrv *httpserver.Server
	if registry != nil {
		err := registry.Register(metric.NewCollector(func() metric.Snapshot {
			ss, hs := store.Stats(), hub.Stats()
			return metric.Snapshot{
				Keys:          ss.Keys,
				ExpiredKeys:   ss.Expired,
				Channels:      hs.Channels,
				Subscriptions: hs.Subscriptions,
				Published:     hs.Published,
				Delivered:     hs.Delivered,
				Dropped:       hs.Dropped,
				Connections:   int64(srv.Connections()),
			}
		}))
		if err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
		httpSrv = httpserver.New(cfg.Server.Metrics.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: registry.Handler(),
			Build:   buildinfo.Get().Map(),
			Logger:  logger.Slog(log),
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	// Hooks run in reverse order: RESP sessions first, background work last.
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("stopping background tasks")
		cancel()
		return nil
	})
	if configFile != "" {
		stopWatch, err := watchLogLevel(configFile, overrides, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error { return stopWatch() })
		}
	}
	if httpSrv != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return httpSrv.Shutdown(ctx)
		})
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down RESP server")
		return srv.Shutdown(ctx)
	})

	g.Go(func() error {
		store.RunSweeper(gctx, cfg.Store.SweepInterval)
		return nil
	})
	g.Go(func() error {
		log.Info("RESP server listening", "addr", redisLn.Addr().String())
		return srv.Serve(gctx, redisLn)
	})
	if httpSrv != nil {
		g.Go(func() error {
			log.Info("metrics server listening", "addr", metricsLn.Addr().String())
			return httpSrv.Serve(metricsLn)
		})
	}

	log.Info("server started, press Ctrl+C to stop")
	shutdownErr := shutdownHandler.Wait(gctx)
	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	if shutdownErr != nil {
		log.Error("shutdown error", "error", shutdownErr)
		return shutdownErr
	}

	log.Info("server stopped gracefully")
	return nil
}

// flagOverrides returns the dotted config keys for the flags given on the
// command line.
func flagOverrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("addr") {
		m["server.redis.addr"] = c.String("addr")
	}
	if c.IsSet("max-connections") {
		m["server.redis.max_connections"] = c.Int("max-connections")
	}
	if c.IsSet("default-ttl") {
		m["store.default_ttl"] = c.Duration("default-ttl")
	}
	if c.IsSet("metrics-addr") {
		m["server.metrics.enabled"] = true
		m["server.metrics.addr"] = c.String("metrics-addr")
	}
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	return m
}

// loadConfig layers defaults, the config file, the environment and flag
// overrides, then validates the result.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	cfg = config.Sanitize(cfg)
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger builds the logger and installs it as the default. The returned
// func releases the log file, if any.
func initLogger(cfg *config.ServerConfig) (logger.Logger, func() error, error) {
	var (
		out    io.Writer = os.Stdout
		closer           = func() error { return nil }
	)
	if cfg.Log.File != "" {
		w := logger.NewRotatingWriter(logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		out, closer = w, w.Close
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    out,
		Component: "simple-redis-server",
	})
	if err != nil {
		closer()
		return nil, nil, err
	}
	logger.SetDefault(log)
	return log, closer, nil
}

func redisConfig(cfg *config.ServerConfig) *redisserver.Config {
	r := cfg.Server.Redis
	return &redisserver.Config{
		Addr:           r.Addr,
		MaxConnections: r.MaxConnections,
		IdleTimeout:    r.IdleTimeout,
		WriteTimeout:   r.WriteTimeout,
		RateLimit:      r.RateLimit,
		MaxBulkLen:     r.MaxBulkLen,
		MaxArrayLen:    r.MaxArrayLen,
	}
}

// watchLogLevel reloads log.level whenever the config file changes. Other
// settings need a restart. Flag overrides keep precedence over the file.
func watchLogLevel(configFile string, overrides map[string]any, log logger.Logger) (stop func() error, err error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(configFile); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(path string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		prev := logger.CurrentLevel()
		logger.SetLevel(cfg.Log.Level)
		if cur := logger.CurrentLevel(); cur != prev {
			log.Info("log level changed", "from", prev, "to", cur)
		}
	})
	w.StartAsync()
	return w.Stop, nil
}
