package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/farmerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "farm.log")
		log, err := New(config.LogConfig{Level: "warn", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("dropped")
		log.Warn("kept", zap.String("crop_id", "c1"))
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "dropped")
		assert.Contains(t, string(data), `"crop_id":"c1"`)
	})

	t.Run("unwritable output", func(t *testing.T) {
		_, err := New(config.LogConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "farm.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestForEnvironment(t *testing.T) {
	assert.Equal(t, "json", ForEnvironment("production").Format)
	assert.Equal(t, "console", ForEnvironment("development").Format)
}

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestContextLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	t.Run("missing logger is a no-op", func(t *testing.T) {
		FromContext(context.Background()).Info("nothing")
		assert.Zero(t, recorded.Len())
	})

	t.Run("request id and trace ids", func(t *testing.T) {
		ctx, _ := WithRequestID(spanContext(t), base, "req-1")
		assert.Equal(t, "req-1", GetRequestID(ctx))

		FromContext(ctx).Info("harvest created")

		entries := recorded.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	})

	t.Run("no span leaves the logger unchanged", func(t *testing.T) {
		assert.Same(t, base, WithTraceContext(context.Background(), base))
	})
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM stock_resources", 1 }

	t.Run("record not found is silent", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info, time.Second, false)

		l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Zero(t, recorded.Len())
	})

	t.Run("errors are logged at error", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second, false)

		l.Trace(context.Background(), time.Now(), query, errors.New("deadlock detected"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "gorm", entries[0].LoggerName)
	})

	t.Run("slow queries are logged at warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 10*time.Millisecond, false)

		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		entries := recorded.FilterMessage("slow sql").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("fast queries only at info level", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second, false)

		l.Trace(context.Background(), time.Now(), query, nil)
		assert.Zero(t, recorded.Len())

		l.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), query, nil)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("silent", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Silent, time.Second, false)

		l.Trace(context.Background(), time.Now(), query, errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	l := NewGormLogger(zap.NewNop(), gormlogger.Warn, time.Second, false)
	_, params := l.ParamsFilter(context.Background(), "UPDATE x SET q = ?", 5)
	assert.Nil(t, params)

	full := NewGormLogger(zap.NewNop(), gormlogger.Warn, time.Second, true)
	_, params = full.ParamsFilter(context.Background(), "UPDATE x SET q = ?", 5)
	assert.Equal(t, []any{5}, params)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info-ish"))
}
