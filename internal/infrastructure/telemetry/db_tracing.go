package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/farmerp/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracingPlugin registers otelgorm on a connection and decorates its
// spans with row counts, row-lock usage and slow query markers.
type DBTracingPlugin struct {
	enabled       bool
	logFullSQL    bool
	slowThreshold time.Duration
	dbSystem      string
	logger        *zap.Logger
}

// NewDBTracingPlugin creates the plugin from telemetry settings.
// dbSystem names the engine on spans ("postgresql" or "sqlite").
func NewDBTracingPlugin(cfg config.TelemetryConfig, dbSystem string, logger *zap.Logger) *DBTracingPlugin {
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = defaultSlowQueryThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{
		enabled:       cfg.Enabled && cfg.DBTraceEnabled,
		logFullSQL:    cfg.DBLogFullSQL,
		slowThreshold: slow,
		dbSystem:      dbSystem,
		logger:        logger,
	}
}

// Register installs otelgorm and the span decoration callbacks.
// It is a no-op when database tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	// Registered ahead of otelgorm so decorateSpan runs while its span is still open.
	if err := registerAround(db, "otel_timing", markQueryStart, func(string) func(*gorm.DB) {
		return p.decorateSpan
	}); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowThreshold),
		zap.String("db_system", p.dbSystem),
	)
	return nil
}

func (p *DBTracingPlugin) decorateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	// clause.Locking registers itself under "FOR"
	if _, locked := db.Statement.Clauses["FOR"]; locked {
		span.SetAttributes(attribute.Bool("db.row_lock", true))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if elapsed, ok := queryElapsed(ctx); ok && elapsed > p.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.slowThreshold.Milliseconds()),
		))
	}
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func queryElapsed(ctx context.Context) (time.Duration, bool) {
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// registerAround hooks before and after every GORM processor that issues SQL.
// afterFor receives the operation name so callers can label what ran.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), afterFor func(op string) func(*gorm.DB)) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register(prefix+":before_create", before),
		cb.Query().Before("gorm:query").Register(prefix+":before_query", before),
		cb.Update().Before("gorm:update").Register(prefix+":before_update", before),
		cb.Delete().Before("gorm:delete").Register(prefix+":before_delete", before),
		cb.Row().Before("gorm:row").Register(prefix+":before_row", before),
		cb.Raw().Before("gorm:raw").Register(prefix+":before_raw", before),

		cb.Create().After("gorm:create").Register(prefix+":after_create", afterFor("INSERT")),
		cb.Query().After("gorm:query").Register(prefix+":after_query", afterFor("SELECT")),
		cb.Update().After("gorm:update").Register(prefix+":after_update", afterFor("UPDATE")),
		cb.Delete().After("gorm:delete").Register(prefix+":after_delete", afterFor("DELETE")),
		cb.Row().After("gorm:row").Register(prefix+":after_row", afterFor("")),
		cb.Raw().After("gorm:raw").Register(prefix+":after_raw", afterFor("")),
	)
}
