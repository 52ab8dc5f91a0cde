package log

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Store(&l)
}

// Configure replaces the process logger. format "console" selects a human readable
// writer, anything else logs JSON lines.
func Configure(level, format string) {
	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	logger.Store(&l)
}

// SetOutput is used by tests to capture or silence output.
func SetOutput(w io.Writer) {
	l := zerolog.New(w).With().Timestamp().Logger()
	logger.Store(&l)
}

// Logger returns the underlying zerolog logger for components that want their own child logger
func Logger() zerolog.Logger {
	return *logger.Load()
}

// Info logs msg with alternating key/value pairs
func Info(msg string, args ...any) {
	logger.Load().Info().Fields(args).Msg(msg)
}

func Debug(msg string, args ...any) {
	logger.Load().Debug().Fields(args).Msg(msg)
}

func Warn(msg string, args ...any) {
	logger.Load().Warn().Fields(args).Msg(msg)
}

func Error(msg string, args ...any) {
	logger.Load().Error().Fields(args).Msg(msg)
}

// With returns a child logger carrying the given key/value pairs on every entry
func With(args ...any) zerolog.Logger {
	return logger.Load().With().Fields(args).Logger()
}
