package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/farmerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type probeRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&probeRow{}))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)

	plugin := NewDBTracingPlugin(config.TelemetryConfig{Enabled: true, DBTraceEnabled: false}, "sqlite", nil)

	require.NoError(t, plugin.Register(db))
	assert.Nil(t, db.Callback().Create().Get("otel_timing:after_create"))
}

func TestDBTracingPlugin_DefaultsSlowThreshold(t *testing.T) {
	plugin := NewDBTracingPlugin(config.TelemetryConfig{}, "postgresql", zap.NewNop())

	assert.Equal(t, defaultSlowQueryThreshold, plugin.slowThreshold)
	assert.False(t, plugin.enabled)
}

func TestDBTracingPlugin_DecoratesSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(config.TelemetryConfig{
		Enabled:           true,
		DBTraceEnabled:    true,
		DBSlowQueryThresh: time.Nanosecond,
	}, "sqlite", zap.NewNop())
	require.NoError(t, plugin.Register(db))

	require.NoError(t, db.WithContext(context.Background()).Create(&probeRow{Name: "coffee"}).Error)

	var decorated bool
	for _, span := range sr.Ended() {
		attrs := make(map[attribute.Key]attribute.Value)
		for _, kv := range span.Attributes() {
			attrs[kv.Key] = kv.Value
		}
		if v, ok := attrs["db.rows_affected"]; ok {
			decorated = true
			assert.Equal(t, int64(1), v.AsInt64())
			assert.Equal(t, "probe_rows", attrs["db.sql.table"].AsString())
			assert.True(t, attrs["db.slow_query"].AsBool())
			assert.NotContains(t, attrs, attribute.Key("db.row_lock"))
		}
	}
	assert.True(t, decorated, "expected a decorated insert span")
}

func TestDBMetrics_RecordsQueries(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("test"), time.Nanosecond, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultPoolStatsInterval, metrics.poolInterval)

	db := setupTestDB(t)
	require.NoError(t, db.Use(metrics))

	require.NoError(t, db.Create(&probeRow{Name: "cocoa"}).Error)
	var rows []probeRow
	require.NoError(t, db.Find(&rows).Error)

	collected := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumFor(t, collected["db_query_total"], AttrDBOperation.String("INSERT")))
	assert.Equal(t, int64(1), sumFor(t, collected["db_query_total"], AttrDBOperation.String("SELECT")))
	assert.Equal(t, int64(2), sumFor(t, collected["db_slow_query_total"], AttrDBTable.String("probe_rows")))
}

func TestDBMetrics_PoolStats(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("test"), 0, time.Hour, zap.NewNop())
	require.NoError(t, err)

	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	metrics.StartPoolStatsCollection(context.Background(), sqlDB)
	metrics.Stop()
	metrics.Stop()

	collected := collectMetrics(t, reader)
	assert.Contains(t, collected, "db_pool_connections")
	assert.Contains(t, collected, "db_pool_connections_max")
}

func TestDetectOperationType(t *testing.T) {
	cases := map[string]string{
		"select * from stock_resources": "SELECT",
		"  INSERT INTO harvests":        "INSERT",
		"UPDATE stock_resources SET":    "UPDATE",
		"delete from sales":             "DELETE",
		"PRAGMA foreign_keys = ON":      "OTHER",
	}
	for sql, want := range cases {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	mp := &MeterProvider{logger: zap.NewNop()}

	metrics, err := RegisterDBMetrics(context.Background(), setupTestDB(t), mp, 0, zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, metrics)
}
