package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// slowQuery is the duration after which a query is logged as a warning.
const slowQuery = 200 * time.Millisecond

// queryLogger writes gorm's log output to zerolog.
type queryLogger struct {
	log   zerolog.Logger
	level gorm_logger.LogLevel
}

func newQueryLogger(l zerolog.Logger) *queryLogger {
	return &queryLogger{
		log:   l.With().Str("component", "database").Logger(),
		level: gorm_logger.Info,
	}
}

func (l *queryLogger) LogMode(level gorm_logger.LogLevel) gorm_logger.Interface {
	return &queryLogger{log: l.log, level: level}
}

func (l *queryLogger) Info(_ context.Context, s string, args ...interface{}) {
	if l.level >= gorm_logger.Info {
		l.log.Info().Msgf(s, args...)
	}
}

func (l *queryLogger) Warn(_ context.Context, s string, args ...interface{}) {
	if l.level >= gorm_logger.Warn {
		l.log.Warn().Msgf(s, args...)
	}
}

func (l *queryLogger) Error(_ context.Context, s string, args ...interface{}) {
	if l.level >= gorm_logger.Error {
		l.log.Error().Msgf(s, args...)
	}
}

// Trace logs every query at debug level. Failed queries are errors unless
// the error is one the caller handles: missing rows and unique conflicts,
// such as a second accept of the same invitation.
func (l *queryLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gorm_logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	var event *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, ErrResourceNotFound) && !errors.Is(err, ErrConflict):
		event = l.log.Error().Err(err)
	case elapsed > slowQuery:
		event = l.log.Warn().Dur("threshold", slowQuery)
	default:
		event = l.log.Debug()
	}

	event.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("query")
}
