package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls gorm span creation.
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	SlowQueryThresh time.Duration
	// IncludeVariables puts bound values into db.statement; never enable in production
	IncludeVariables bool
}

const startedAtKey = "telemetry:started_at"

// RegisterDBTracing installs otelgorm and a callback tagging slow statements
// on the span otelgorm created.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	thresh := cfg.SlowQueryThresh
	if thresh <= 0 {
		thresh = 200 * time.Millisecond
	}
	before := func(tx *gorm.DB) { tx.InstanceSet(startedAtKey, time.Now()) }
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		elapsed := time.Since(v.(time.Time))
		if elapsed < thresh {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
	}

	cb := db.Callback()
	registrations := []struct {
		name string
		err  error
	}{
		{"create", cb.Create().Before("gorm:create").Register("telemetry:before_create", before)},
		{"query", cb.Query().Before("gorm:query").Register("telemetry:before_query", before)},
		{"update", cb.Update().Before("gorm:update").Register("telemetry:before_update", before)},
		{"delete", cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before)},
		{"row", cb.Row().Before("gorm:row").Register("telemetry:before_row", before)},
		{"raw", cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before)},
		{"create", cb.Create().After("gorm:create").Register("telemetry:after_create", after)},
		{"query", cb.Query().After("gorm:query").Register("telemetry:after_query", after)},
		{"update", cb.Update().After("gorm:update").Register("telemetry:after_update", after)},
		{"delete", cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after)},
		{"row", cb.Row().After("gorm:row").Register("telemetry:after_row", after)},
		{"raw", cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after)},
	}
	for _, r := range registrations {
		if r.err != nil {
			return r.err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query_threshold", thresh),
	)
	return nil
}
