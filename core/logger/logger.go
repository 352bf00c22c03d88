package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Log level constants, ordered from least to most verbose.
const (
	LevelError = 1
	LevelWarn  = 2
	LevelInfo  = 3
	LevelDebug = 4
)

var (
	globalLevel = LevelInfo
	levelMu     sync.RWMutex
)

// SetLevel sets the global log level.
func SetLevel(level int) {
	levelMu.Lock()
	defer levelMu.Unlock()
	if level >= LevelError && level <= LevelDebug {
		globalLevel = level
		zerolog.SetGlobalLevel(toZerologLevel(level))
	}
}

// Level returns the current global log level.
func Level() int {
	levelMu.RLock()
	defer levelMu.RUnlock()
	return globalLevel
}

func toZerologLevel(level int) zerolog.Level {
	switch level {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a tagged leveled logger backed by zerolog.
type Logger struct {
	tag    string
	logger zerolog.Logger
}

// New creates a logger with a tag identifying the subsystem
// (e.g. "runtime", "handler", "connector:cosmos").
func New(tag string) *Logger {
	logger := zlog.Logger.With().Str("tag", tag).Logger()
	if isInteractive() {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02T15:04:05.000Z"}
		logger = zerolog.New(output).With().Str("tag", tag).Timestamp().Logger()
	}
	return &Logger{tag: tag, logger: logger}
}

// isInteractive checks if the output is going to a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (l *Logger) enabled(level int) bool {
	levelMu.RLock()
	ok := level <= globalLevel
	levelMu.RUnlock()
	return ok
}

// Error logs at ERROR level.
func (l *Logger) Error(message string) {
	if !l.enabled(LevelError) {
		return
	}
	l.logger.Error().Msg(message)
}

// Errorf logs at ERROR level with formatting and returns the message as an
// error so call sites can both log and propagate.
func (l *Logger) Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	if l.enabled(LevelError) {
		l.logger.Error().Msg(err.Error())
	}
	return err
}

// Warn logs at WARN level.
func (l *Logger) Warn(message string) {
	if !l.enabled(LevelWarn) {
		return
	}
	l.logger.Warn().Msg(message)
}

// Warnf logs at WARN level with formatting.
func (l *Logger) Warnf(format string, args ...any) {
	if !l.enabled(LevelWarn) {
		return
	}
	l.logger.Warn().Msgf(format, args...)
}

// Info logs at INFO level.
func (l *Logger) Info(message string) {
	if !l.enabled(LevelInfo) {
		return
	}
	l.logger.Info().Msg(message)
}

// Infof logs at INFO level with formatting.
func (l *Logger) Infof(format string, args ...any) {
	if !l.enabled(LevelInfo) {
		return
	}
	l.logger.Info().Msgf(format, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(message string) {
	if !l.enabled(LevelDebug) {
		return
	}
	l.logger.Debug().Msg(message)
}

// Debugf logs at DEBUG level with formatting.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.enabled(LevelDebug) {
		return
	}
	l.logger.Debug().Msgf(format, args...)
}

// PrintError logs an error with a title, ignoring nil errors.
func (l *Logger) PrintError(title string, err error) {
	if err == nil {
		return
	}
	_ = l.Errorf("%s: %v", title, err)
}
