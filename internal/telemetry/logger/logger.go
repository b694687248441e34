package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// WithContext binds ctx to the logger. A session ID carried by ctx is
	// attached as "session_id".
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Format is json or text ("console" is an alias). Empty means json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
	// Component is attached to every record as "component" when set.
	Component string
}

// levels maps configuration names to slog levels. The first name listed
// for a level is the one reported by CurrentLevel.
var levels = []struct {
	names []string
	level slog.Level
}{
	{[]string{"debug"}, slog.LevelDebug},
	{[]string{"info", ""}, slog.LevelInfo},
	{[]string{"warn", "warning"}, slog.LevelWarn},
	{[]string{"error"}, slog.LevelError},
}

func lookupLevel(name string) (slog.Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range levels {
		for _, n := range l.names {
			if n == name {
				return l.level, true
			}
		}
	}
	return slog.LevelInfo, false
}

// level is shared by every logger built with New so that a reload of
// log.level takes effect everywhere at once.
var level = new(slog.LevelVar)

// SetLevel changes the level of all loggers. Unknown names select info.
func SetLevel(name string) {
	lv, _ := lookupLevel(name)
	level.Set(lv)
}

// CurrentLevel returns the active level name.
func CurrentLevel() string {
	cur := level.Level()
	for _, l := range levels {
		if l.level == cur {
			return l.names[0]
		}
	}
	return cur.String()
}

type slogLogger struct {
	base *slog.Logger
	ctx  context.Context
}

// New builds a logger and sets the shared level from cfg.Level.
func New(cfg Config) (Logger, error) {
	lv, ok := lookupLevel(cfg.Level)
	if !ok {
		return nil, fmt.Errorf("logger: unknown level %q", cfg.Level)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(out, opts)
	case "text", "console":
		h = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
	level.Set(lv)

	base := slog.New(h)
	if cfg.Component != "" {
		base = base.With("component", cfg.Component)
	}
	return &slogLogger{base: base, ctx: context.Background()}, nil
}

func (l *slogLogger) Debug(msg string, args ...any) { l.base.DebugContext(l.ctx, msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.base.InfoContext(l.ctx, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.base.WarnContext(l.ctx, msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.base.ErrorContext(l.ctx, msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	base := l.base
	if id := SessionIDFromContext(ctx); id != "" {
		base = base.With("session_id", id)
	}
	return &slogLogger{base: base, ctx: ctx}
}

var std atomic.Pointer[slogLogger]

func init() {
	std.Store(&slogLogger{
		base: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		ctx:  context.Background(),
	})
}

// SetDefault installs l as the package default. It also becomes the slog
// default, so packages logging through log/slog share its handler.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		std.Store(sl)
		slog.SetDefault(sl.base)
	}
}

// Default returns the package default logger.
func Default() Logger {
	return std.Load()
}

// Slog returns the *slog.Logger behind l, or slog.Default() if l was not
// created by this package.
func Slog(l Logger) *slog.Logger {
	if sl, ok := l.(*slogLogger); ok {
		return sl.base
	}
	return slog.Default()
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return &slogLogger{
		base: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:  context.Background(),
	}
}

// Debug logs through the default logger.
func Debug(msg string, args ...any) { std.Load().Debug(msg, args...) }

// Error logs through the default logger.
func Error(msg string, args ...any) { std.Load().Error(msg, args...) }
