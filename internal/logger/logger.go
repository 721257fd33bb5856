package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // trace, debug, info, warn, error
	Format     string // json, console
	TimeFormat string
	Output     string // stdout, stderr, or file path
}

// DefaultConfig returns the logging configuration used before config is loaded
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stdout",
	}
}

// Setup initializes the global logger with the provided configuration
func Setup(config LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	output, err := openOutput(config.Output)
	if err != nil {
		return err
	}

	if config.TimeFormat == "" {
		config.TimeFormat = time.RFC3339
	}
	if strings.ToLower(config.Format) != "json" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: config.TimeFormat}
	}

	log.Logger = zerolog.New(output).With().
		Timestamp().
		Logger()
	zerolog.TimeFieldFormat = config.TimeFormat

	return nil
}

func openOutput(target string) (io.Writer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	}
}

// WithComponent returns a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// Gorm returns a gorm logger that writes through zerolog. SQL errors log at error
// level and slow queries at warn; statement traces only appear at debug.
func Gorm() gormlogger.Interface {
	level := gormlogger.Warn
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}
	return &gormLogger{
		log:           WithComponent("gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
}

type gormLogger struct {
	log           zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msgf(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msgf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msgf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error().Err(err).Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("query")
	}
}
