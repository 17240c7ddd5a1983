package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestSetup_Disabled(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.NotNil(t, p.Tracer.Tracer("x"))
	assert.NotNil(t, p.Meter.Meter("x"))
	assert.False(t, p.Profiler.IsEnabled())
	assert.False(t, p.Tracer.IsSpanProfilesEnabled())

	log := zap.NewNop()
	assert.Same(t, log, p.BridgeLogger(log))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "invoice", "send",
		telemetry.AttrTenantID, "t1",
		telemetry.AttrAmount, 12.5,
		42, "ignored non-string key",
	)
	assert.NotEmpty(t, telemetry.TraceID(ctx))
	telemetry.SetAttributes(span, telemetry.AttrStatus, "SENT")
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.send", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("tenant_id", "t1"))
	assert.Contains(t, spans[0].Attributes(), attribute.Float64("amount", 12.5))
	assert.Contains(t, spans[0].Attributes(), attribute.String("status", "SENT"))
	assert.Len(t, spans[0].Attributes(), 3)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.TraceID(context.Background()))
}

func TestRecordError_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.SetAttributes(nil, "k", "v")
	})
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := telemetry.NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.InvoiceCreated(ctx, "t1")
	m.InvoicePaid(ctx, "t1", "USD", decimal.RequireFromString("250.00"))
	m.PointsAwarded(ctx, "t1", "invoice", 12)
	m.PointsAwarded(ctx, "t1", "boq_item", 5)
	m.LoginFailed(ctx, "bad_password")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if data, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[metric.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["erp.invoice.created"])
	assert.Equal(t, int64(1), sums["erp.invoice.paid"])
	assert.Equal(t, int64(17), sums["erp.points.awarded"])
	assert.Equal(t, int64(1), sums["erp.auth.login_failures"])
}

func TestBusinessMetrics_NilReceiver(t *testing.T) {
	var m *telemetry.BusinessMetrics
	assert.NotPanics(t, func() {
		m.InvoiceCreated(context.Background(), "t1")
		m.BOQItemCompleted(context.Background(), "t1")
	})
}

type widget struct {
	ID   uint
	Name string
}

func TestRegisterDBTracing(t *testing.T) {
	sr := setupTestTracer(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{
		Enabled: true,
		DBName:  "erp",
	}, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("Database tracing enabled").Len())

	require.NoError(t, db.AutoMigrate(&widget{}))
	require.NoError(t, db.WithContext(context.Background()).Create(&widget{Name: "bolt"}).Error)

	var got []widget
	require.NoError(t, db.WithContext(context.Background()).Find(&got).Error)
	assert.Len(t, got, 1)
	assert.NotEmpty(t, sr.Ended())
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	assert.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{}, zap.NewNop()))
}
