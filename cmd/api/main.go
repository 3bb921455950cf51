package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asiatranscargo/cargo-api/config"
	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/asiatranscargo/cargo-api/internal/database/postgres"
	"github.com/asiatranscargo/cargo-api/internal/handlers"
	"github.com/asiatranscargo/cargo-api/internal/idempotency"
	"github.com/asiatranscargo/cargo-api/internal/middleware"
	"github.com/asiatranscargo/cargo-api/internal/repository"
	"github.com/asiatranscargo/cargo-api/internal/services"
	"github.com/asiatranscargo/cargo-api/pkg/bitrix"
	"github.com/asiatranscargo/cargo-api/pkg/db"
	"github.com/asiatranscargo/cargo-api/pkg/httpclient"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/asiatranscargo/cargo-api/pkg/profiling"
	"github.com/asiatranscargo/cargo-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Lead and calculator bodies are small JSON documents
const maxBodySize = 64 * 1024

type routeHandlers struct {
	lead       *handlers.LeadHandler
	content    *handlers.ContentHandler
	countries  *handlers.CountriesHandler
	calculator *handlers.CalculatorHandler
	health     *handlers.HealthHandler
	delivery   *handlers.DeliveryHandler
}

type rateLimiters struct {
	general *middleware.RateLimiter
	lead    *middleware.RateLimiter
}

func newRateLimiters() rateLimiters {
	return rateLimiters{
		general: middleware.NewRateLimiter("general", 50, 100), // 50 req/sec, burst of 100
		lead:    middleware.NewRateLimiter("lead", 0.2, 5),     // 1 req/5s, burst of 5
	}
}

func (l rateLimiters) stop() {
	l.general.Stop()
	l.lead.Stop()
}

// registerRoutes mounts the public site API under /api
func registerRoutes(router *gin.Engine, h routeHandlers, limits rateLimiters) {
	api := router.Group("/api")
	general := limits.general.Middleware()
	bodyLimit := middleware.BodySizeLimitMiddleware(maxBodySize)

	api.GET("/healthcheck", general, h.health.Healthcheck)
	api.GET("/metrics", general, gin.WrapH(promhttp.Handler()))

	api.POST("/lead", limits.lead.Middleware(), bodyLimit, h.lead.SubmitLead)

	api.GET("/news", general, h.content.ListNews)
	api.GET("/news/:slug", general, h.content.GetNews)
	api.GET("/cases", general, h.content.ListCases)
	api.GET("/cases/:slug", general, h.content.GetCase)

	api.GET("/countries", general, h.countries.ListCountries)
	api.GET("/countries/:code", general, h.countries.GetCountry)

	api.POST("/calculate/customs", general, bodyLimit, h.calculator.Customs)
	api.GET("/calculate/customs/tariffs", general, h.calculator.Tariffs)
	api.POST("/calculate/delivery", general, bodyLimit, h.calculator.Delivery)

	if h.delivery != nil {
		api.GET("/delivery-options", general, h.delivery.ListDeliveryOptions)
	}
}

type dataSources struct {
	content  repository.ContentDataSource
	delivery repository.DeliveryOptionsSource // nil without DATABASE_URL
	close    func()
}

// newDataSources picks the content API when configured, Postgres otherwise.
// The pool is opened whenever DATABASE_URL is set since delivery options only
// live in Postgres. close is never nil.
func newDataSources(ctx context.Context, cfg *config.Config) (dataSources, error) {
	ds := dataSources{close: func() {}}

	if cfg.Database.URL != "" {
		pool, err := db.NewPool(ctx, db.PoolConfig{
			URL:        cfg.Database.URL,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
			CACertPath: cfg.Database.CACertPath,
		})
		if err != nil {
			return ds, err
		}
		source := repository.NewPostgresContentSource(postgres.NewClient(pool))
		ds.content = source
		ds.delivery = source
		ds.close = func() { db.Close(pool) }
	}

	if cfg.UsesContentAPI() {
		logger.Info("Reading content from content API", zap.String("url", cfg.Content.APIURL))
		client := httpclient.NewClientWithTimeout(cfg.ContentAPITimeout())
		ds.content = repository.NewHTTPContentSource(cfg.Content.APIURL, client)
	} else {
		logger.Info("Reading content from PostgreSQL")
	}
	return ds, nil
}

// newIdempotencyStore uses Redis when REDIS_ADDR is set so keys survive restarts
// and are shared between replicas. Falls back to process memory.
func newIdempotencyStore(ctx context.Context, cfg *config.Config) (idempotency.Store, func()) {
	if cfg.Redis.Addr != "" {
		client, err := idempotency.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			logger.Info("Idempotency keys stored in Redis", zap.String("addr", cfg.Redis.Addr))
			return idempotency.NewRedisStore(client, cfg.IdempotencyTTL()), func() {
				if closeErr := client.Close(); closeErr != nil {
					logger.Error("Failed to close redis client", zap.Error(closeErr))
				}
			}
		}
		logger.Warn("Redis unavailable, keeping idempotency keys in memory", zap.Error(err))
	}
	return idempotency.NewMemoryStore(cfg.IdempotencyTTL()), func() {}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting cargo API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	sources, err := newDataSources(startCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize data sources", zap.Error(err))
	}
	defer sources.close()

	idemStore, closeIdem := newIdempotencyStore(startCtx, cfg)
	defer closeIdem()

	crm := bitrix.NewClient(bitrix.Config{
		WebhookURL:   cfg.CRM.WebhookURL,
		Timeout:      cfg.CRMTimeout(),
		CountryField: cfg.CRM.CountryField,
		SourceField:  cfg.CRM.SourceField,
		SourceValue:  cfg.CRM.SourceValue,
	}, nil)

	catalog := countries.Default()
	leadService := services.NewLeadService(crm, catalog, idemStore)
	contentService := services.NewContentService(sources.content, cfg.Content.DefaultLimit, cfg.Content.MaxLimit)

	h := routeHandlers{
		lead:       handlers.NewLeadHandler(leadService),
		content:    handlers.NewContentHandler(contentService),
		countries:  handlers.NewCountriesHandler(catalog),
		calculator: handlers.NewCalculatorHandler(catalog),
		health:     handlers.NewHealthHandler(contentService),
	}
	if sources.delivery != nil {
		h.delivery = handlers.NewDeliveryHandler(services.NewDeliveryService(sources.delivery, catalog))
	} else {
		logger.Warn("DATABASE_URL not set, delivery options are disabled")
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	limits := newRateLimiters()
	defer limits.stop()
	registerRoutes(router, h, limits)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started",
			zap.String("port", cfg.Server.Port),
			zap.String("content_source", contentService.SourceName()),
			zap.String("idempotency_store", idemStore.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Leaves room for an in-flight CRM call to finish
	ctx, cancel := context.WithTimeout(context.Background(), cfg.CRMTimeout()+2*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
