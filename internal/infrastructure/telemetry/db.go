package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "telemetry:started_at"

// DBConfig selects the database instrumentation
type DBConfig struct {
	Tracing       bool
	DBSystem      string
	SlowThreshold time.Duration // zero disables slow query logging
}

type dbInstrumentation struct {
	cfg      DBConfig
	logger   *zap.Logger
	duration metric.Float64Histogram
}

// InstrumentDB adds otelgorm spans, a query duration histogram, slow query logging and
// connection pool gauges to db
func InstrumentDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) error {
	if meter == nil {
		return ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Tracing {
		if err := db.Use(otelgorm.NewPlugin(
			otelgorm.WithDBName(cfg.DBSystem),
			otelgorm.WithoutQueryVariables(),
		)); err != nil {
			return fmt.Errorf("failed to register otelgorm: %w", err)
		}
	}

	duration, err := meter.Float64Histogram("storefront_db_query_duration_seconds",
		metric.WithDescription("Database statement latency"),
		metric.WithUnit("s"))
	if err != nil {
		return instrumentErr("storefront_db_query_duration_seconds", err)
	}
	in := &dbInstrumentation{cfg: cfg, logger: logger, duration: duration}
	if err := in.registerCallbacks(db); err != nil {
		return err
	}
	return registerPoolGauges(db, meter)
}

func (in *dbInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	type hook struct {
		op     string
		before func(string) error
		after  func(string) error
	}
	hooks := []hook{
		{"create", func(n string) error { return cb.Create().Before("gorm:create").Register(n, in.start) },
			func(n string) error { return cb.Create().After("gorm:create").Register(n, in.finish("create")) }},
		{"query", func(n string) error { return cb.Query().Before("gorm:query").Register(n, in.start) },
			func(n string) error { return cb.Query().After("gorm:query").Register(n, in.finish("query")) }},
		{"update", func(n string) error { return cb.Update().Before("gorm:update").Register(n, in.start) },
			func(n string) error { return cb.Update().After("gorm:update").Register(n, in.finish("update")) }},
		{"delete", func(n string) error { return cb.Delete().Before("gorm:delete").Register(n, in.start) },
			func(n string) error { return cb.Delete().After("gorm:delete").Register(n, in.finish("delete")) }},
		{"row", func(n string) error { return cb.Row().Before("gorm:row").Register(n, in.start) },
			func(n string) error { return cb.Row().After("gorm:row").Register(n, in.finish("row")) }},
		{"raw", func(n string) error { return cb.Raw().Before("gorm:raw").Register(n, in.start) },
			func(n string) error { return cb.Raw().After("gorm:raw").Register(n, in.finish("raw")) }},
	}
	for _, h := range hooks {
		if err := h.before("telemetry:before_" + h.op); err != nil {
			return fmt.Errorf("failed to register %s timer: %w", h.op, err)
		}
		if err := h.after("telemetry:after_" + h.op); err != nil {
			return fmt.Errorf("failed to register %s recorder: %w", h.op, err)
		}
	}
	return nil
}

func (in *dbInstrumentation) start(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

func (in *dbInstrumentation) finish(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		in.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("table", db.Statement.Table),
			attribute.Bool("error", db.Error != nil),
		))

		if in.cfg.SlowThreshold > 0 && elapsed >= in.cfg.SlowThreshold {
			in.logger.Warn("Slow database query",
				zap.String("operation", op),
				zap.String("table", db.Statement.Table),
				zap.Duration("duration", elapsed),
				zap.Int64("rows", db.RowsAffected),
				zap.String("sql", db.Statement.SQL.String()))
		}
	}
}

func registerPoolGauges(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	conns, err := meter.Int64ObservableGauge("storefront_db_pool_connections",
		metric.WithDescription("Open database connections by state"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return instrumentErr("storefront_db_pool_connections", err)
	}
	waits, err := meter.Int64ObservableCounter("storefront_db_pool_wait_total",
		metric.WithDescription("Connections waited for because the pool was exhausted"),
		metric.WithUnit("{waits}"))
	if err != nil {
		return instrumentErr("storefront_db_pool_wait_total", err)
	}

	inUse := metric.WithAttributes(attribute.String("state", "in_use"))
	idle := metric.WithAttributes(attribute.String("state", "idle"))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), inUse)
		o.ObserveInt64(conns, int64(stats.Idle), idle)
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	return nil
}
