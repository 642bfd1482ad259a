package logger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// QueryLogger is a bun query hook. Failed queries are logged as errors and
// queries slower than SlowThreshold as warnings; everything else goes to
// debug.
type QueryLogger struct {
	SlowThreshold time.Duration
}

var _ bun.QueryHook = (*QueryLogger)(nil)

func NewQueryLogger(slow time.Duration) *QueryLogger {
	return &QueryLogger{SlowThreshold: slow}
}

func (l *QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (l *QueryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", event.Operation()),
		slog.String("query", event.Query),
		slog.Duration("took", duration),
	}

	// No rows is an expected outcome for lookups.
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		slog.Error("Query failed", append(attrs, slog.Any("error", event.Err))...)
		return
	}

	if event.Result != nil {
		if n, err := event.Result.RowsAffected(); err == nil {
			attrs = append(attrs, slog.Int64("affected_rows", n))
		}
	}

	if l.SlowThreshold > 0 && duration > l.SlowThreshold {
		slog.Warn("Query executed slowly", attrs...)
		return
	}
	slog.Debug("Query executed", attrs...)
}
