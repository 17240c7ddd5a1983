package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration
	ServiceName       string
	Insecure          bool
}

// MeterProvider wraps the SDK meter provider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates and registers a MeterProvider with a periodic OTLP reader.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	interval := cfg.ExportInterval
	if interval == 0 {
		interval = 60 * time.Second
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Meter returns a named meter from the global provider
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown flushes pending metrics.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Metric attribute keys
var (
	AttrKeyTenant     = attribute.Key("tenant_id")
	AttrKeySourceType = attribute.Key("source_type")
	AttrKeyReason     = attribute.Key("reason")
	AttrKeyCurrency   = attribute.Key("currency")
)

// BusinessMetrics counts domain activity. A nil *BusinessMetrics records nothing.
type BusinessMetrics struct {
	invoicesCreated metric.Int64Counter
	invoicesPaid    metric.Int64Counter
	invoiceAmount   metric.Float64Histogram
	boqCompleted    metric.Int64Counter
	pointsAwarded   metric.Int64Counter
	loginFailures   metric.Int64Counter
}

// NewBusinessMetrics registers the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)
	if m.invoicesCreated, err = meter.Int64Counter("erp.invoice.created",
		metric.WithDescription("Invoices created"), metric.WithUnit("{invoice}")); err != nil {
		return nil, err
	}
	if m.invoicesPaid, err = meter.Int64Counter("erp.invoice.paid",
		metric.WithDescription("Invoices settled"), metric.WithUnit("{invoice}")); err != nil {
		return nil, err
	}
	if m.invoiceAmount, err = meter.Float64Histogram("erp.invoice.paid_amount",
		metric.WithDescription("Settled invoice totals"),
		metric.WithExplicitBucketBoundaries(10, 100, 500, 1000, 5000, 10000, 50000, 100000)); err != nil {
		return nil, err
	}
	if m.boqCompleted, err = meter.Int64Counter("erp.boq_item.completed",
		metric.WithDescription("BOQ items reaching 100% progress"), metric.WithUnit("{item}")); err != nil {
		return nil, err
	}
	if m.pointsAwarded, err = meter.Int64Counter("erp.points.awarded",
		metric.WithDescription("Points credited to users"), metric.WithUnit("{point}")); err != nil {
		return nil, err
	}
	if m.loginFailures, err = meter.Int64Counter("erp.auth.login_failures",
		metric.WithDescription("Rejected login attempts"), metric.WithUnit("{attempt}")); err != nil {
		return nil, err
	}
	return &m, nil
}

// InvoiceCreated counts a new invoice
func (m *BusinessMetrics) InvoiceCreated(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.invoicesCreated.Add(ctx, 1, metric.WithAttributes(AttrKeyTenant.String(tenantID)))
}

// InvoicePaid counts a settled invoice and records its total
func (m *BusinessMetrics) InvoicePaid(ctx context.Context, tenantID, currency string, total decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrKeyTenant.String(tenantID), AttrKeyCurrency.String(currency))
	m.invoicesPaid.Add(ctx, 1, attrs)
	m.invoiceAmount.Record(ctx, total.InexactFloat64(), attrs)
}

// BOQItemCompleted counts a completed BOQ item
func (m *BusinessMetrics) BOQItemCompleted(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.boqCompleted.Add(ctx, 1, metric.WithAttributes(AttrKeyTenant.String(tenantID)))
}

// PointsAwarded adds points credited from sourceType
func (m *BusinessMetrics) PointsAwarded(ctx context.Context, tenantID, sourceType string, points int) {
	if m == nil {
		return
	}
	m.pointsAwarded.Add(ctx, int64(points),
		metric.WithAttributes(AttrKeyTenant.String(tenantID), AttrKeySourceType.String(sourceType)))
}

// LoginFailed counts a rejected login
func (m *BusinessMetrics) LoginFailed(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.loginFailures.Add(ctx, 1, metric.WithAttributes(AttrKeyReason.String(reason)))
}
