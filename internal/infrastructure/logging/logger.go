package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bccsg/obs/internal/infrastructure/config"
)

// Logger is the service-wide structured logger: an slog.Logger carrying
// the default service and version fields. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging config section: handler format
// (json or text), minimum level, output destination, and the default
// service/version attributes attached to every record.
//
// Parameters:
//   - cfg: logging section of the loaded configuration
//   - version: build version stamped on every record
//
// Returns:
//   - *Logger: ready to use
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "scenecycler"),
		slog.String("version", version),
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// parseLevel maps a level string (debug, info, warn/warning, error) to its
// slog.Level. Unrecognised strings fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger carrying additional default attributes,
// typically a component tag:
//
//	engineLog := log.With("component", "cycle")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Default returns a JSON/info/stdout logger for use during early startup,
// before the configuration file has been read.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
