package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appaccounts "github.com/erp/suite/internal/application/accounts"
	appgamification "github.com/erp/suite/internal/application/gamification"
	apphr "github.com/erp/suite/internal/application/hr"
	appidentity "github.com/erp/suite/internal/application/identity"
	appprinting "github.com/erp/suite/internal/application/printing"
	appprocurement "github.com/erp/suite/internal/application/procurement"
	appprojects "github.com/erp/suite/internal/application/projects"
	appsales "github.com/erp/suite/internal/application/sales"
	"github.com/erp/suite/internal/infrastructure/auth"
	"github.com/erp/suite/internal/infrastructure/cache"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/erp/suite/internal/infrastructure/event"
	"github.com/erp/suite/internal/infrastructure/migration"
	"github.com/erp/suite/internal/infrastructure/persistence"
	"github.com/erp/suite/internal/infrastructure/printing"
	"github.com/erp/suite/internal/infrastructure/storage"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/erp/suite/internal/interfaces/http/handler"
	"github.com/erp/suite/internal/interfaces/http/middleware"
	"github.com/erp/suite/internal/interfaces/http/router"
	"github.com/erp/suite/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const appVersion = "1.0.0"

// App holds the wired HTTP engine and everything that has to be released on exit
type App struct {
	Engine *gin.Engine
	DB     *persistence.Database

	closers []func(context.Context) error
}

// Close releases resources in reverse acquisition order
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// buildApp connects infrastructure and wires services, handlers and routes.
// On error everything acquired so far is released.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger, meter metric.Meter) (app *App, err error) {
	app = &App{}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	}()

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log,
		persistence.WithSlowQueryThreshold(cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		return nil, err
	}
	app.DB = db
	app.onClose(func(context.Context) error { return db.Close() })

	if err = migrateSchema(db, cfg, log); err != nil {
		return nil, err
	}
	if err = telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.Driver,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		return nil, err
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis is optional; without it blacklist and idempotency stay in process
	var redisClient redis.UniversalClient
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	var blacklist auth.TokenBlacklist
	if client != nil {
		redisClient = client
		app.onClose(func(context.Context) error { return client.Close() })
		blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	idempotency := cache.NewIdempotencyStore(redisClient, log)
	app.onClose(func(context.Context) error { return idempotency.Close() })

	if meter == nil {
		return nil, errors.New("meter is required")
	}
	metrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	overrideRepo := persistence.NewGormPermissionOverrideRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	boqRepo := persistence.NewGormBOQItemRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	pointsRepo := persistence.NewGormPointsRepository(db.DB)

	// Events
	bus := event.NewInMemoryEventBus(log)
	appgamification.RegisterHandlers(bus, idempotency, pointsRepo, metrics, log)
	if cfg.Kafka.Enabled {
		writer := event.NewKafkaWriter(cfg.Kafka)
		bus.Subscribe(event.NewKafkaForwarder(writer, log))
		log.Info("Forwarding domain events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	if err = bus.Start(ctx); err != nil {
		return nil, err
	}
	app.onClose(bus.Stop)

	// Printing; both pieces are optional and disable document generation when absent
	var renderer printing.PDFRenderer
	if cfg.Renderer.Enabled {
		chrome := printing.NewChromedpRenderer(cfg.Renderer, log)
		app.onClose(func(context.Context) error { return chrome.Close() })
		renderer = chrome
	}
	var documents appprinting.DocumentStorage
	if cfg.Storage.Enabled() {
		s3, serr := storage.NewS3Storage(ctx, cfg.Storage, storage.WithLogger(log))
		if serr != nil {
			return nil, serr
		}
		documents = s3
	} else if !cfg.IsProduction() {
		documents = storage.NewMemoryStorage()
	}
	printService := appprinting.NewPrintService(renderer, documents, cfg.Storage.PresignExpiry, log)

	// Services
	permissionService := appidentity.NewPermissionService(overrideRepo, cfg.RBAC.CacheTTL, log)
	authorizer := appidentity.NewAuthorizer(permissionService)
	jwtService := auth.NewJWTService(cfg.JWT)

	authConfig := appidentity.DefaultAuthServiceConfig()
	if cfg.Auth.MaxLoginAttempts > 0 {
		authConfig.MaxLoginAttempts = cfg.Auth.MaxLoginAttempts
	}
	if cfg.Auth.LockoutDuration > 0 {
		authConfig.LockDuration = cfg.Auth.LockoutDuration
	}
	authService := appidentity.NewAuthService(appidentity.AuthServiceDeps{
		Tenants:   tenantRepo,
		Users:     userRepo,
		Policies:  permissionService,
		JWT:       jwtService,
		Blacklist: blacklist,
		Events:    bus,
		Metrics:   metrics,
	}, authConfig, log)
	userService := appidentity.NewUserService(userRepo, authorizer, blacklist, bus, cfg.JWT.RefreshTokenExpiration, log)
	tenantService := appidentity.NewTenantService(tenantRepo, authorizer, log)
	customerService := appsales.NewCustomerService(customerRepo, authorizer, bus, log)
	invoiceService := appaccounts.NewInvoiceService(appaccounts.InvoiceServiceDeps{
		Invoices:   invoiceRepo,
		Customers:  customerRepo,
		Tenants:    tenantRepo,
		Authorizer: authorizer,
		Printer:    printService,
		Events:     bus,
		Metrics:    metrics,
	}, log)
	boqService := appprojects.NewBOQService(boqRepo, authorizer, bus, metrics, log)
	employeeService := apphr.NewEmployeeService(employeeRepo, userRepo, authorizer, log)
	purchaseOrderService := appprocurement.NewPurchaseOrderService(purchaseOrderRepo, authorizer, log)
	pointsService := appgamification.NewPointsService(pointsRepo, authorizer, log)

	// HTTP
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	engine, stop, err := router.NewEngine(router.EngineOptions{
		Config: cfg,
		Logger: log,
		Meter:  meter,
		Health: handler.NewHealthHandler(cfg.App.Name, appVersion, checks),
	})
	if err != nil {
		return nil, err
	}
	app.onClose(func(context.Context) error { stop(); return nil })

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewAPIRouter(engine, jwtConfig)
	if cfg.Telemetry.Profiling.Enabled {
		r.Use(middleware.ProfilingLabels())
	}
	router.RegisterAPI(r, router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Tenant:        handler.NewTenantHandler(tenantService),
		User:          handler.NewUserHandler(userService),
		Permission:    handler.NewPermissionHandler(permissionService),
		Customer:      handler.NewCustomerHandler(customerService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		BOQ:           handler.NewBOQHandler(boqService),
		Employee:      handler.NewEmployeeHandler(employeeService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Points:        handler.NewPointsHandler(pointsService),
	}, authorizer, log)
	r.Setup()

	app.Engine = engine
	return app, nil
}

// migrateSchema applies the SQL migrations on postgres over a dedicated
// connection and falls back to model auto-migration on sqlite
func migrateSchema(db *persistence.Database, cfg *config.Config, log *zap.Logger) error {
	if cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn("Failed to close migrator", zap.Error(cerr))
		}
		_ = sqlDB.Close()
	}()
	return m.Up()
}
