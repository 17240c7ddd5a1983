package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  telemetry.ProfilerConfig
		want string
	}{
		{"missing server", telemetry.ProfilerConfig{Enabled: true, ApplicationName: "erp"}, "server address"},
		{"missing application", telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, "application name"},
		{"unknown type", telemetry.ProfilerConfig{
			Enabled: true, ServerAddress: "http://localhost:4040", ApplicationName: "erp",
			ProfileTypes: []string{"cpu", "heap"},
		}, `"heap"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := telemetry.NewProfiler(tt.cfg, zap.NewNop())
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := telemetry.ParseProfileTypes([]string{"cpu", " Inuse_Space ", "cpu", "block_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileBlockCount,
	}, types)

	types, err = telemetry.ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("labels are visible inside fn", func(t *testing.T) {
		called := false
		telemetry.WithProfilingLabels(context.Background(), map[string]string{
			telemetry.ProfilingLabelRoute: "/api/v1/invoices/:id",
			"Tenant-ID":                   "01HTENANTAAAAAAAAAAAAAAAAA",
			"user_id":                     "01HUSERAAAAAAAAAAAAAAAAAAA",
			"empty":                       "",
		}, func(ctx context.Context) {
			called = true
			route, ok := pprof.Label(ctx, "route")
			assert.True(t, ok)
			assert.Equal(t, "/api/v1/invoices/:id", route)
			tenant, _ := pprof.Label(ctx, telemetry.ProfilingLabelTenantID)
			assert.Equal(t, "01HTENANTAAAAAAAAAAAAAAAAA", tenant)
			_, ok = pprof.Label(ctx, "user_id")
			assert.False(t, ok)
			_, ok = pprof.Label(ctx, "empty")
			assert.False(t, ok)
		})
		assert.True(t, called)
	})

	t.Run("long values are truncated", func(t *testing.T) {
		telemetry.WithProfilingLabels(context.Background(), map[string]string{
			telemetry.ProfilingLabelOperation: strings.Repeat("x", 300),
		}, func(ctx context.Context) {
			op, _ := pprof.Label(ctx, telemetry.ProfilingLabelOperation)
			assert.Len(t, op, telemetry.MaxLabelValueLength)
		})
	})

	t.Run("no labels still runs fn", func(t *testing.T) {
		called := false
		telemetry.WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
		assert.True(t, called)
	})
}

func TestTracerProvider_EnableSpanProfiles_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	tp.EnableSpanProfiles()
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	if testing.Short() {
		t.Skip("builds an OTLP exporter")
	}
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-span-profiles",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	assert.False(t, tp.IsSpanProfilesEnabled())
	tp.EnableSpanProfiles()
	tp.EnableSpanProfiles()
	assert.True(t, tp.IsSpanProfilesEnabled())

	_, span := tp.Tracer("test").Start(ctx, "work")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
