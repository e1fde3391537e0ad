package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-colorable"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shapedtime/neomovies/internal/config"
)

// Setup builds the process logger from config and installs it as the slog
// default. The returned closer flushes the rotating log file, if any.
func Setup(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	var out io.Writer = colorable.NewColorableStderr()
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = io.MultiWriter(out, rotator)
		closer = rotator
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}))
	slog.SetDefault(logger)

	return logger, closer
}

// ParseLevel maps a config level name to a slog level. Unknown names fall
// back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Badger adapts slog to badger's Logger interface.
type Badger struct {
	L *slog.Logger
}

func (b *Badger) Errorf(format string, args ...interface{}) {
	b.L.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b *Badger) Warningf(format string, args ...interface{}) {
	b.L.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b *Badger) Infof(format string, args ...interface{}) {
	b.L.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b *Badger) Debugf(format string, args ...interface{}) {
	b.L.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
