// Package exportlog adapts zerolog to export.Logger.
package exportlog

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/rs/zerolog"
)

// Logger writes export logs through a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

var _ export.Logger = Logger{}

// New wraps an existing zerolog logger.
func New(zl zerolog.Logger) Logger {
	return Logger{zl: zl}
}

// Options configures NewFromOptions.
type Options struct {
	Level string
	// Format is "console" or "json".
	Format    string
	Out       io.Writer
	Component string
}

// NewFromOptions builds a timestamped logger at the requested level.
func NewFromOptions(opts Options) (Logger, error) {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return Logger{}, err
		}
		level = parsed
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return Logger{zl: ctx.Logger()}, nil
}

// Zerolog returns the wrapped logger.
func (l Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// With returns a child logger carrying key=value.
func (l Logger) With(key, value string) Logger {
	return Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l Logger) Debugf(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l Logger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l Logger) Warnf(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l Logger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }
