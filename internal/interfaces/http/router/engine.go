package router

import (
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/erp/suite/internal/infrastructure/logger"
	"github.com/erp/suite/internal/interfaces/http/handler"
	"github.com/erp/suite/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineOptions configures the HTTP engine
type EngineOptions struct {
	Config *config.Config
	Logger *zap.Logger
	Meter  metric.Meter // nil disables HTTP metrics
	Health *handler.HealthHandler
}

// NewEngine builds the gin engine with the shared middleware stack:
// request ID, logging, recovery, security headers, CORS, body limit,
// rate limiting, tracing and metrics. The returned stop func releases
// background resources.
func NewEngine(opts EngineOptions) (*gin.Engine, func(), error) {
	cfg, log := opts.Config, opts.Logger
	stop := func() {}

	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(limiter))
		stop = limiter.Stop
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	if opts.Meter != nil {
		metrics, err := middleware.HTTPMetrics(opts.Meter)
		if err != nil {
			stop()
			return nil, nil, err
		}
		engine.Use(metrics)
	}

	if opts.Health != nil {
		engine.GET("/health", opts.Health.Health)
		engine.GET("/api/v1/health", opts.Health.Health)
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return engine, stop, nil
}

// NewAPIRouter returns the versioned router with JWT authentication applied
func NewAPIRouter(engine *gin.Engine, jwt middleware.JWTMiddlewareConfig) *Router {
	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwt), middleware.TracingAttributeInjector())
	return r
}
