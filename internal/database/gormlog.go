package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cafehub/internal/middleware"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQuery is the latency above which statements are logged at warn.
const SlowQuery = 200 * time.Millisecond

// queryLogger sends GORM output through the shared slog logger so SQL lines
// carry the request and trace IDs of the context they ran under.
type queryLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

func newQueryLogger(level logger.LogLevel) queryLogger {
	return queryLogger{level: level, slow: SlowQuery}
}

func (q queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	q.level = level
	return q
}

func (q queryLogger) emit(ctx context.Context, min logger.LogLevel, lvl slog.Level, msg string, attrs ...slog.Attr) {
	if q.level >= min {
		middleware.Logger.LogAttrs(ctx, lvl, msg, attrs...)
	}
}

func (q queryLogger) Info(ctx context.Context, msg string, args ...any) {
	q.emit(ctx, logger.Info, slog.LevelInfo, fmt.Sprintf(msg, args...))
}

func (q queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	q.emit(ctx, logger.Warn, slog.LevelWarn, fmt.Sprintf(msg, args...))
}

func (q queryLogger) Error(ctx context.Context, msg string, args ...any) {
	q.emit(ctx, logger.Error, slog.LevelError, fmt.Sprintf(msg, args...))
}

// Trace reports failed statements, then slow ones, then (at Info) everything.
// A missing record is an expected outcome, not a failure.
func (q queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= logger.Silent {
		return
	}
	took := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && took > q.slow
	if !failed && !slow && q.level < logger.Info {
		return
	}

	sql, rows := fc()
	attrs := []slog.Attr{slog.String("sql", sql), slog.Int64("rows", rows), slog.Duration("took", took)}
	switch {
	case failed:
		q.emit(ctx, logger.Error, slog.LevelError, "sql failed", append(attrs, slog.String("error", err.Error()))...)
	case slow:
		q.emit(ctx, logger.Warn, slog.LevelWarn, "sql slow", attrs...)
	default:
		q.emit(ctx, logger.Info, slog.LevelDebug, "sql", attrs...)
	}
}
