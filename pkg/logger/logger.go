package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Leveled logger shared by every package.
// - Init(level) and Debugf/Infof/Warnf/Errorf/Fatalf for plain messages
// - With(component) for scoped loggers carrying key/value attributes
// - text output by default, JSON with SetFormat("json")

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// slog has no fatal level; it is logged above error.
const slogFatal = slog.Level(12)

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	asJSON bool
	level  Level = LevelInfo
	lvar         = new(slog.LevelVar)
	base         = newBase()
)

func newBase() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: lvar,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l >= slogFatal {
					return slog.String(slog.LevelKey, "FATAL")
				}
			}
			return a
		},
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
	lvar.Set(toSlog(level))
}

// SetFormat switches between "text" (default) and "json" output.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	asJSON = strings.EqualFold(strings.TrimSpace(f), "json")
	base = newBase()
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	base = newBase()
}

func toSlog(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelFatal:
		return slogFatal
	}
	return slog.LevelInfo
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Logger is a scoped logger. Attributes are attached to every record it writes.
type Logger struct {
	attrs []any
}

// With returns a logger tagged with a component name.
func With(component string) *Logger {
	return &Logger{attrs: []any{"component", component}}
}

// With returns a copy carrying extra key/value attributes.
func (g *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(g.attrs)+len(args))
	attrs = append(attrs, g.attrs...)
	return &Logger{attrs: append(attrs, args...)}
}

func (g *Logger) log(l slog.Level, msg string, args ...any) {
	lg := current()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	all := make([]any, 0, len(g.attrs)+len(args))
	all = append(all, g.attrs...)
	lg.Log(context.Background(), l, msg, append(all, args...)...)
}

func (g *Logger) Debug(msg string, args ...any) { g.log(slog.LevelDebug, msg, args...) }
func (g *Logger) Info(msg string, args ...any)  { g.log(slog.LevelInfo, msg, args...) }
func (g *Logger) Warn(msg string, args ...any)  { g.log(slog.LevelWarn, msg, args...) }
func (g *Logger) Error(msg string, args ...any) { g.log(slog.LevelError, msg, args...) }

func (g *Logger) Debugf(format string, v ...interface{}) {
	g.log(slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (g *Logger) Infof(format string, v ...interface{}) {
	g.log(slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (g *Logger) Warnf(format string, v ...interface{}) {
	g.log(slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (g *Logger) Errorf(format string, v ...interface{}) {
	g.log(slog.LevelError, fmt.Sprintf(format, v...))
}

var root = &Logger{}

func Debugf(format string, v ...interface{}) { root.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { root.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { root.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { root.Errorf(format, v...) }

func Fatalf(format string, v ...interface{}) {
	current().Log(context.Background(), slogFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	root.log(slog.LevelInfo, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
